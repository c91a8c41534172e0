package output

import (
	"encoding/csv"
	"io"
	"strconv"
)

var l2tHeader = []string{
	"date", "time", "timezone", "MACB", "source", "sourcetype", "type",
	"user", "host", "short", "desc", "version", "filename", "inode",
	"notes", "format", "extra",
}

// WriteL2T writes the 17-column log2timeline CSV schema, matching
// analyzeMFT's write_l2t exactly.
func WriteL2T(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(l2tHeader); err != nil {
		return err
	}

	for _, row := range rows {
		name := row.FullPath
		if name == "" {
			name = row.FileName
		}
		for _, entry := range row.timelineEntries() {
			if entry.ts.IsZero() || entry.ts.IsCorrupt() {
				continue
			}
			macb := l2tMACB(entry.kind)
			t := entry.ts.Time()
			record := []string{
				t.Format("01/02/2006"),
				t.Format("15:04:05"),
				"UTC",
				macb,
				"MFT",
				"FILESYSTEM",
				entry.kind,
				"", "", "",
				name + " " + entry.kind,
				"",
				name,
				strconv.FormatUint(row.RecordNumber, 10),
				notesString(row.Notes),
				entry.source,
				"",
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func l2tMACB(kind string) string {
	switch kind {
	case "modified":
		return "M"
	case "accessed":
		return "A"
	case "mft_modified":
		return "C"
	case "created":
		return "B"
	default:
		return ""
	}
}
