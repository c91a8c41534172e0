package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocimft/mftkit/anomaly"
	"github.com/velocimft/mftkit/output"
	"github.com/velocimft/mftkit/parser"
	"github.com/velocimft/mftkit/pathresolve"
)

// TestCycleInPathEndToEnd exercises scenario S6 (record A parent->B,
// B parent->A) through the full resolve -> anomaly/notes -> output row
// pipeline, the way cmd/mftkit's row-building loop wires them
// together, rather than unit-testing pathresolve in isolation.
func TestCycleInPathEndToEnd(t *testing.T) {
	recA := &parser.Record{
		RecordNumber:   10,
		SequenceNumber: 1,
		Flags:          parser.FlagInUse,
		Attributes: []parser.Attribute{
			{Type: parser.AttrFileName, Resident: true, Payload: &parser.FileName{
				ParentRecordNumber: 20,
				ParentSequence:     1,
				Name:               "a",
			}},
		},
	}
	recB := &parser.Record{
		RecordNumber:   20,
		SequenceNumber: 1,
		Flags:          parser.FlagInUse,
		Attributes: []parser.Attribute{
			{Type: parser.AttrFileName, Resident: true, Payload: &parser.FileName{
				ParentRecordNumber: 10,
				ParentSequence:     1,
				Name:               "b",
			}},
		},
	}
	records := map[uint64]*parser.Record{10: recA, 20: recB}

	source := pathresolve.MapSource{
		10: {Name: "a", ParentRecordNum: 20, ParentSequence: 1, SequenceNumber: 1, Active: true, Found: true},
		20: {Name: "b", ParentRecordNum: 10, ParentSequence: 1, SequenceNumber: 1, Active: true, Found: true},
	}
	resolver := pathresolve.New(source)

	var rows []output.Row
	for recordNumber, rec := range records {
		fullPath := resolver.Resolve(recordNumber)
		assert.Contains(t, fullPath, "<cycle>")

		notes := anomaly.Check(rec, nil)
		if note, ok := pathresolve.NoteForPath(fullPath); ok {
			notes = append(notes, note)
		}

		rows = append(rows, output.FromRecord(rec, fullPath, notes, nil)...)
	}

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.True(t, strings.HasPrefix(row.FullPath, `<cycle>\`))
		assert.Contains(t, row.Notes, "CycleInPath")
	}
}
