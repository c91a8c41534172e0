package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velocimft/mftkit/parser"
)

func attrWithPayload(t parser.AttributeType, payload interface{}) parser.Attribute {
	return parser.Attribute{Type: t, Resident: true, Payload: payload}
}

func TestCheckStdFnShift(t *testing.T) {
	early := parser.DecodeFiletime(1)
	late := parser.DecodeFiletime(100000000000)

	rec := &parser.Record{
		Flags: parser.FlagInUse,
		Attributes: []parser.Attribute{
			attrWithPayload(parser.AttrStandardInformation, &parser.StandardInformation{Created: early}),
			attrWithPayload(parser.AttrFileName, &parser.FileName{Created: late}),
		},
	}

	notes := Check(rec, nil)
	assert.Contains(t, notes, "std-fn-shift")
}

func TestCheckNoAnomalies(t *testing.T) {
	// 1230 ticks past a whole second: 123 microseconds, so usec-zero
	// does not fire.
	same := parser.DecodeFiletime(100000001230)
	rec := &parser.Record{
		Flags: parser.FlagInUse,
		Attributes: []parser.Attribute{
			attrWithPayload(parser.AttrStandardInformation, &parser.StandardInformation{Created: same}),
			attrWithPayload(parser.AttrFileName, &parser.FileName{Created: same, RealSize: 100}),
			attrWithPayload(parser.AttrData, nil),
		},
	}
	rec.Attributes[2].DataSize = 100

	notes := Check(rec, nil)
	assert.Empty(t, notes)
}

func TestCheckFlagsInconsistentDirectoryWithoutIndexRoot(t *testing.T) {
	rec := &parser.Record{
		Flags: parser.FlagInUse | parser.FlagIsDirectory,
	}

	notes := Check(rec, nil)
	assert.Contains(t, notes, "flags-inconsistent")
}

func TestCheckFlagsInconsistentDeletedButParentActive(t *testing.T) {
	rec := &parser.Record{
		Flags: 0, // not in use
		Attributes: []parser.Attribute{
			attrWithPayload(parser.AttrFileName, &parser.FileName{ParentRecordNumber: 5}),
		},
	}

	lookup := func(parentRecordNumber uint64) (bool, bool, bool) {
		return true, true, true // parent active and a directory
	}

	notes := Check(rec, lookup)
	assert.Contains(t, notes, "flags-inconsistent")
}

func TestCheckSizeMismatch(t *testing.T) {
	data := attrWithPayload(parser.AttrData, nil)
	data.DataSize = 1000000

	rec := &parser.Record{
		Flags: parser.FlagInUse,
		Attributes: []parser.Attribute{
			attrWithPayload(parser.AttrFileName, &parser.FileName{RealSize: 100}),
			data,
		},
	}

	notes := Check(rec, nil)
	assert.Contains(t, notes, "size-mismatch")
}

func TestCheckSizeWithinClusterTolerance(t *testing.T) {
	data := attrWithPayload(parser.AttrData, nil)
	data.DataSize = 5000

	rec := &parser.Record{
		Flags: parser.FlagInUse,
		Attributes: []parser.Attribute{
			attrWithPayload(parser.AttrFileName, &parser.FileName{RealSize: 4900}),
			data,
		},
	}

	notes := Check(rec, nil)
	assert.NotContains(t, notes, "size-mismatch")
}

func TestCheckUsecZero(t *testing.T) {
	ts := parser.DecodeFiletime(uint64(1000000000+11644473600) * 10000000)
	rec := &parser.Record{
		Flags: parser.FlagInUse,
		Attributes: []parser.Attribute{
			attrWithPayload(parser.AttrStandardInformation, &parser.StandardInformation{Created: ts}),
			attrWithPayload(parser.AttrFileName, &parser.FileName{Created: ts}),
		},
	}

	notes := Check(rec, nil)
	assert.Contains(t, notes, "usec-zero")
}

func TestCheckTruncatedAttributes(t *testing.T) {
	rec := &parser.Record{Flags: parser.FlagInUse, TruncatedAttributes: true}
	notes := Check(rec, nil)
	assert.Contains(t, notes, "truncated-attributes")
}
