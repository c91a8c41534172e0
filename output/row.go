// Package output defines the denormalized logical output row spec.md
// section 4.J describes and every serializer (CSV, JSON, XML,
// body-file, TSK timeline, log2timeline CSV, SQLite, Excel-as-CSV)
// that renders it.
package output

import (
	"fmt"
	"time"

	"github.com/velocimft/mftkit/hashpipeline"
	"github.com/velocimft/mftkit/parser"
)

// Row is one output record: one per (base record, alternate data
// stream name) pair, matching the teacher's MFTHighlight duplication
// of rows for ADS names.
type Row struct {
	RecordNumber       uint64
	SequenceNumber     uint16
	ParentRecordNumber uint64
	ParentSequence     uint16
	InUse              bool
	IsDirectory        bool
	HasADS             bool
	ADSName            string
	LinkCount          uint16

	FileName     string
	FileNameType string
	FullPath     string

	FileSize int64

	SICreated     parser.Timestamp
	SIModified    parser.Timestamp
	SIMFTModified parser.Timestamp
	SIAccessed    parser.Timestamp
	FNCreated     parser.Timestamp
	FNModified    parser.Timestamp
	FNMFTModified parser.Timestamp
	FNAccessed    parser.Timestamp

	FileAttributes parser.FileAttributeFlags
	LogFileSeqNum  uint64

	Notes []string

	Hash *hashpipeline.Digest
}

// FromRecord builds the (possibly several, one per ADS) Rows for a
// decoded record, given its already-resolved full path and anomaly
// notes.
func FromRecord(rec *parser.Record, fullPath string, notes []string, hash *hashpipeline.Digest) []Row {
	si, _ := valueOf(rec.Attr(parser.AttrStandardInformation))
	stdInfo, _ := si.(*parser.StandardInformation)

	fileNames := rec.AttrsOfType(parser.AttrFileName)
	preferred := preferredFileName(fileNames)

	base := Row{
		RecordNumber:   rec.RecordNumber,
		SequenceNumber: rec.SequenceNumber,
		InUse:          rec.Flags.InUse(),
		IsDirectory:    rec.Flags.IsDirectory(),
		LinkCount:      rec.LinkCount,
		FullPath:       fullPath,
		LogFileSeqNum:  rec.LogFileSequenceNumber,
		Notes:          notes,
		Hash:           hash,
	}

	if preferred != nil {
		base.ParentRecordNumber = preferred.ParentRecordNumber
		base.ParentSequence = preferred.ParentSequence
		base.FileName = preferred.Name
		base.FileNameType = preferred.Namespace.String()
		base.FileSize = int64(preferred.RealSize)
		base.FNCreated = preferred.Created
		base.FNModified = preferred.Modified
		base.FNMFTModified = preferred.MFTModified
		base.FNAccessed = preferred.Accessed
		base.FileAttributes = preferred.FileAttributes
	}

	if stdInfo != nil {
		base.SICreated = stdInfo.Created
		base.SIModified = stdInfo.Modified
		base.SIMFTModified = stdInfo.MFTModified
		base.SIAccessed = stdInfo.Accessed
		if preferred == nil {
			base.FileAttributes = stdInfo.FileAttributes
		}
	}

	dataAttrs := rec.AttrsOfType(parser.AttrData)
	var rows []Row
	emittedBase := false
	for _, attr := range dataAttrs {
		if attr.Name == "" {
			if !emittedBase {
				row := base
				row.FileSize = resolveDataSize(row.FileSize, attr)
				rows = append(rows, row)
				emittedBase = true
			}
			continue
		}
		ads := base
		ads.HasADS = true
		ads.ADSName = attr.Name
		ads.FileSize = attr.DataSize
		rows = append(rows, ads)
	}

	if len(rows) == 0 {
		rows = append(rows, base)
	} else if len(dataAttrs) > 1 {
		for i := range rows {
			rows[i].HasADS = true
		}
	}

	return rows
}

func resolveDataSize(fnSize int64, attr *parser.Attribute) int64 {
	if attr.DataSize != 0 {
		return attr.DataSize
	}
	return fnSize
}

func valueOf(attr *parser.Attribute) (interface{}, bool) {
	if attr == nil {
		return nil, false
	}
	return attr.Payload, true
}

// preferredFileName implements the Win32+DOS > Win32 > POSIX > DOS
// namespace preference the teacher's FileName() helper uses when a
// record carries more than one $FILE_NAME.
func preferredFileName(attrs []*parser.Attribute) *parser.FileName {
	rank := func(ns parser.FileNameNamespace) int {
		switch ns {
		case parser.NamespaceWin32AndDOS:
			return 0
		case parser.NamespaceWin32:
			return 1
		case parser.NamespacePOSIX:
			return 2
		case parser.NamespaceDOS:
			return 3
		default:
			return 4
		}
	}

	var best *parser.FileName
	bestRank := 5
	for _, attr := range attrs {
		fn, ok := attr.Payload.(*parser.FileName)
		if !ok {
			continue
		}
		if r := rank(fn.Namespace); r < bestRank {
			bestRank = r
			best = fn
		}
	}
	return best
}

func formatTime(ts parser.Timestamp) string {
	return ts.Format(time.UTC)
}

func notesString(notes []string) string {
	s := ""
	for i, n := range notes {
		if i > 0 {
			s += ";"
		}
		s += n
	}
	return s
}

func modeOctal(flags parser.FileAttributeFlags, isDir bool) string {
	mode := uint32(0o644)
	if isDir {
		mode = 0o755
	}
	if flags&parser.FileAttrReadOnly != 0 {
		mode &^= 0o222
	}
	return fmt.Sprintf("%04o", mode)
}
