// Package driver implements the streaming pass over an MFT image: it
// reads fixed-size record slices, applies fixup and assembly from the
// parser package, and accumulates a running Summary. It is the Go
// analogue of the teacher's ParseMFTFile/ParseMFTFileWithOptions
// goroutine-driven scan, adapted to read record-sized chunks directly
// off an io.ReaderAt instead of walking a volume's $MFT data runs.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Velocidex/ordereddict"

	"github.com/velocimft/mftkit/parser"
)

// ErrorKind classifies a per-record failure recorded in a RecordError.
type ErrorKind string

const (
	ErrorKindFixupMismatch    ErrorKind = "FixupMismatch"
	ErrorKindBadMagic         ErrorKind = "BadMagic"
	ErrorKindTruncatedRecord  ErrorKind = "TruncatedRecord"
	ErrorKindAssembleFailed   ErrorKind = "AssembleFailed"
)

// RecordError is one entry of the driver's per-record error log, per
// the {record#, kind, message} shape the streaming driver is
// documented to produce.
type RecordError struct {
	RecordNumber uint64
	Kind         ErrorKind
	Message      string
}

// Summary accumulates the driver's global counters across a run.
// Backed by ordereddict so a CLI can render it directly with
// tablewriter or fold it into --list-profiles-style structured output.
type Summary struct {
	Total     int
	Active    int
	Directory int
	Errors    int

	dict *ordereddict.Dict
}

func newSummary() *Summary {
	return &Summary{dict: ordereddict.NewDict()}
}

func (s *Summary) Dict() *ordereddict.Dict {
	return s.dict.
		Set("total", s.Total).
		Set("active", s.Active).
		Set("directory", s.Directory).
		Set("errors", s.Errors)
}

// Result is one successfully (or best-effort) decoded record, handed
// to the caller's callback in record-number order.
type Result struct {
	Record *parser.Record
	Notes  []string
}

const shortReadTolerance = 0.01

// Driver reads a raw MFT image in record-sized chunks and assembles
// each slice into a parser.Record.
type Driver struct {
	opts       parser.Options
	chunkSize  int
	recordSize int
}

func New(opts parser.Options, chunkSize int) *Driver {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &Driver{opts: opts, chunkSize: chunkSize}
}

// Run streams every record in r, invoking onResult for each one in
// ascending record-number order. onResult returning an error aborts
// the run (propagated to the caller); no further records are decoded.
// ctx cancellation is checked before each record is read.
func (d *Driver) Run(ctx context.Context, r io.ReaderAt, size int64, onResult func(Result) error) (*Summary, []RecordError, error) {
	summary := newSummary()
	var recordErrors []RecordError

	recordSize, err := d.detectRecordSize(r)
	if err != nil {
		return summary, recordErrors, err
	}
	d.recordSize = recordSize

	total := size / int64(recordSize)
	buf := make([]byte, recordSize)
	records := make(map[uint64]*parser.Record)

	for i := int64(0); i < total; i++ {
		if err := ctx.Err(); err != nil {
			return summary, recordErrors, err
		}

		offset := i * int64(recordSize)
		n, readErr := r.ReadAt(buf, offset)
		if readErr != nil && readErr != io.EOF {
			return summary, recordErrors, readErr
		}
		if n < recordSize {
			shortfall := float64(recordSize-n) / float64(recordSize)
			if shortfall > shortReadTolerance {
				recordErrors = append(recordErrors, RecordError{
					RecordNumber: uint64(i),
					Kind:         ErrorKindTruncatedRecord,
					Message:      fmt.Sprintf("short read: got %d of %d bytes", n, recordSize),
				})
				summary.Errors++
				continue
			}
		}

		summary.Total++

		rec, notes, err := d.decodeOne(buf[:n])
		if err != nil {
			recordErrors = append(recordErrors, RecordError{
				RecordNumber: uint64(i),
				Kind:         classifyError(err),
				Message:      err.Error(),
			})
			summary.Errors++
			continue
		}

		records[rec.RecordNumber] = rec
		if rec.Flags.InUse() {
			summary.Active++
		}
		if rec.Flags.IsDirectory() {
			summary.Directory++
		}

		if err := onResult(Result{Record: rec, Notes: notes}); err != nil {
			return summary, recordErrors, err
		}
	}

	// Second pass: fold $ATTRIBUTE_LIST extension records into their
	// base record now that every record has been decoded. This mirrors
	// the teacher's two-pass approach to avoid extension records that
	// appear after their base in file order.
	for _, rec := range records {
		if rec.IsBaseRecord() && !rec.Flags.IsExtension() {
			parser.FoldExtensions(rec, records)
		}
	}

	return summary, recordErrors, nil
}

func (d *Driver) decodeOne(buf []byte) (*parser.Record, []string, error) {
	var notes []string

	corrupt, err := parser.ApplyFixup(buf, d.opts.SectorSize)
	if err != nil {
		return nil, nil, err
	}
	if corrupt {
		notes = append(notes, string(ErrorKindFixupMismatch))
	}

	rec, err := parser.AssembleRecord(buf, d.recordSize)
	if err != nil {
		return nil, nil, err
	}
	if corrupt {
		rec.FixupCorrupt = true
		rec.Attributes = nil
	}
	if rec.TruncatedAttributes {
		notes = append(notes, "TruncatedAttributes")
	}

	return rec, notes, nil
}

// detectRecordSize infers the per-entry size from the first record's
// allocated-size field, defaulting to 1024 and tolerating 4096, unless
// the caller has pinned RecordSize explicitly.
func (d *Driver) detectRecordSize(r io.ReaderAt) (int, error) {
	if d.opts.RecordSize != 0 {
		return d.opts.RecordSize, nil
	}

	probe := make([]byte, 4096)
	n, err := r.ReadAt(probe, 0)
	if err != nil && err != io.EOF {
		return 0, err
	}
	probe = probe[:n]

	if len(probe) < 1024 {
		return 1024, nil
	}

	reader := parser.NewReader(probe)
	allocated, err := reader.ReadU32(28)
	if err != nil {
		return 1024, nil
	}
	if allocated == 4096 {
		return 4096, nil
	}
	return 1024, nil
}

func classifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, parser.ErrBadMagic):
		return ErrorKindBadMagic
	case errors.Is(err, parser.ErrTruncatedRecord):
		return ErrorKindTruncatedRecord
	default:
		return ErrorKindAssembleFailed
	}
}
