package parser

import "fmt"

// Sentinel errors returned by the parser package. Callers compare with
// errors.Is rather than switching on string content.
var (
	ErrOutOfBounds     = fmt.Errorf("mftkit/parser: read out of bounds")
	ErrBadMagic        = fmt.Errorf("mftkit/parser: bad record magic")
	ErrFixupMismatch   = fmt.Errorf("mftkit/parser: fixup signature mismatch")
	ErrTruncatedRecord = fmt.Errorf("mftkit/parser: record truncated before declared used size")
	ErrTruncatedRun    = fmt.Errorf("mftkit/parser: data run truncated")
	ErrTruncatedAttr   = fmt.Errorf("mftkit/parser: attribute header truncated")
)

// BoundsError carries the offending offset/length so callers can log a
// useful diagnostic without re-deriving it.
type BoundsError struct {
	Offset, Length, BufferSize int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("mftkit/parser: out of bounds: offset=%d length=%d buffer=%d",
		e.Offset, e.Length, e.BufferSize)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

func newBoundsError(offset, length, size int) error {
	return &BoundsError{Offset: offset, Length: length, BufferSize: size}
}
