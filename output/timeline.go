package output

import (
	"fmt"
	"io"

	"github.com/velocimft/mftkit/parser"
)

type timelineEntry struct {
	source string // "STD" or "FN"
	kind   string // "created", "modified", "mft_modified", "accessed"
	ts     parser.Timestamp
}

func (r Row) timelineEntries() []timelineEntry {
	return []timelineEntry{
		{"STD", "created", r.SICreated},
		{"STD", "modified", r.SIModified},
		{"STD", "mft_modified", r.SIMFTModified},
		{"STD", "accessed", r.SIAccessed},
		{"FN", "created", r.FNCreated},
		{"FN", "modified", r.FNModified},
		{"FN", "mft_modified", r.FNMFTModified},
		{"FN", "accessed", r.FNAccessed},
	}
}

// WriteTimeline writes a TSK-style timeline: one row per (record,
// timestamp) across up to eight timestamps (both $STANDARD_INFORMATION
// and $FILE_NAME), five columns: time|source|type|path|record_number.
// This reconciles spec.md's component description ("up to eight
// timestamps") with its CLI section's "5-column" label - analyzeMFT's
// own write_timeline only ever emits $FILE_NAME's four timestamps in a
// much wider pipe format, which does not by itself satisfy either of
// spec.md's two descriptions.
func WriteTimeline(w io.Writer, rows []Row) error {
	for _, row := range rows {
		name := row.FullPath
		if name == "" {
			name = row.FileName
		}
		for _, entry := range row.timelineEntries() {
			if entry.ts.IsZero() {
				continue
			}
			_, err := fmt.Fprintf(w, "%d|%s|%s|%s|%d\n",
				unixSeconds(entry.ts),
				entry.source,
				entry.kind,
				sanitizeBodyField(name),
				row.RecordNumber,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
