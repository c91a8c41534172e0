// Package anomaly implements the forensic flags the teacher's
// MFTHighlight computes inline (SI_Lt_FN, USecZeros, Copied) plus the
// two structural checks (flags-inconsistent, size-mismatch) spec.md
// adds on top of them.
package anomaly

import (
	"github.com/velocimft/mftkit/parser"
)

// ParentLookup answers whether a record's $FILE_NAME parent reference
// points at a record that is both active and a directory, which
// flagsInconsistent needs but a single record's own fields can't tell
// it.
type ParentLookup func(parentRecordNumber uint64) (active, isDirectory bool, found bool)

// Check runs every anomaly detector against a decoded record and
// returns the notes that fired. An empty slice means nothing fired,
// not that the record wasn't checked. parentLookup may be nil, in
// which case the in-use/parent-directory half of flags-inconsistent is
// skipped.
func Check(rec *parser.Record, parentLookup ParentLookup) []string {
	var notes []string

	si := rec.Attr(parser.AttrStandardInformation)
	fileNames := rec.AttrsOfType(parser.AttrFileName)

	if si != nil && len(fileNames) > 0 {
		stdInfo, _ := si.Payload.(*parser.StandardInformation)
		if stdInfo != nil {
			for _, fn := range fileNames {
				fileName, _ := fn.Payload.(*parser.FileName)
				if fileName == nil {
					continue
				}
				if stdTimestompShifted(stdInfo, fileName) {
					notes = append(notes, "std-fn-shift")
					break
				}
			}

			if usecZero(stdInfo) {
				notes = append(notes, "usec-zero")
			}
		}
	}

	if flagsInconsistent(rec, fileNames, parentLookup) {
		notes = append(notes, "flags-inconsistent")
	}

	if sizeMismatch(rec) {
		notes = append(notes, "size-mismatch")
	}

	if rec.TruncatedAttributes {
		notes = append(notes, "truncated-attributes")
	}

	return notes
}

// stdTimestompShifted flags the classic timestomp signature: the
// $STANDARD_INFORMATION creation time is earlier than the $FILE_NAME
// creation time, which legitimate filesystem activity never produces
// (FN is written first, at creation, and SI's SI_Lt_FN in the teacher's
// naming is exactly this comparison).
func stdTimestompShifted(si *parser.StandardInformation, fn *parser.FileName) bool {
	return si.Created.Before(fn.Created)
}

// usecZero flags a $STANDARD_INFORMATION creation time whose
// microseconds-of-second component is exactly zero, a common footprint
// of tools that set timestamps with only second resolution.
func usecZero(si *parser.StandardInformation) bool {
	usec, ok := si.Created.UnixMicroseconds()
	return ok && usec == 0
}

// flagsInconsistent fires on either of two disagreements: the header's
// IS_DIRECTORY bit against whether the record carries an $INDEX_ROOT,
// or the header's in-use bit being clear while a $FILE_NAME's parent
// reference points at a directory that is itself still active (a
// deleted record should not still be linked from a live directory).
func flagsInconsistent(rec *parser.Record, fileNames []*parser.Attribute, parentLookup ParentLookup) bool {
	hasIndexRoot := rec.Attr(parser.AttrIndexRoot) != nil
	if rec.Flags.IsDirectory() != hasIndexRoot {
		return true
	}

	if rec.Flags.InUse() || parentLookup == nil {
		return false
	}
	for _, fn := range fileNames {
		fileName, ok := fn.Payload.(*parser.FileName)
		if !ok {
			continue
		}
		active, isDir, found := parentLookup(fileName.ParentRecordNumber)
		if found && active && isDir {
			return true
		}
	}
	return false
}

// clusterSize is the conventional 4K cluster used when no boot-sector
// geometry is available to size-mismatch's tolerance.
const clusterSize = 4096

// sizeMismatch flags a $FILE_NAME whose real-size disagrees with the
// unnamed $DATA attribute's size by more than one cluster - FN's
// cached size attribute going stale relative to the actual stream is
// itself a forensically interesting signal, not just a bug to paper
// over.
func sizeMismatch(rec *parser.Record) bool {
	var data *parser.Attribute
	for _, attr := range rec.AttrsOfType(parser.AttrData) {
		if attr.Name == "" {
			data = attr
			break
		}
	}
	if data == nil {
		return false
	}
	for _, fn := range rec.AttrsOfType(parser.AttrFileName) {
		fileName, ok := fn.Payload.(*parser.FileName)
		if !ok {
			continue
		}
		diff := int64(fileName.RealSize) - data.DataSize
		if diff > clusterSize || diff < -clusterSize {
			return true
		}
	}
	return false
}
