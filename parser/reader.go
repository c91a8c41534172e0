package parser

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// Reader is a bounds-checked cursor over a single in-memory MFT record
// buffer. It never allocates beyond what ReadFixedBytes/ReadUTF16String
// hand back, and every accessor returns an error instead of panicking
// when a field would run past the end of the buffer - malformed records
// are common in carved or partially overwritten MFTs and must not crash
// the driver.
type Reader struct {
	buf []byte
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Len() int { return len(r.buf) }

func (r *Reader) check(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(r.buf) {
		return newBoundsError(offset, length, len(r.buf))
	}
	return nil
}

func (r *Reader) ReadU8(offset int) (uint8, error) {
	if err := r.check(offset, 1); err != nil {
		return 0, err
	}
	return r.buf[offset], nil
}

func (r *Reader) ReadI8(offset int) (int8, error) {
	v, err := r.ReadU8(offset)
	return int8(v), err
}

func (r *Reader) ReadU16(offset int) (uint16, error) {
	if err := r.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[offset:]), nil
}

func (r *Reader) ReadI16(offset int) (int16, error) {
	v, err := r.ReadU16(offset)
	return int16(v), err
}

func (r *Reader) ReadU32(offset int) (uint32, error) {
	if err := r.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[offset:]), nil
}

func (r *Reader) ReadI32(offset int) (int32, error) {
	v, err := r.ReadU32(offset)
	return int32(v), err
}

func (r *Reader) ReadU64(offset int) (uint64, error) {
	if err := r.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[offset:]), nil
}

func (r *Reader) ReadI64(offset int) (int64, error) {
	v, err := r.ReadU64(offset)
	return int64(v), err
}

// ReadFixedBytes returns a slice view directly into the underlying
// buffer. Callers that need to retain it past the lifetime of the
// record should copy it themselves.
func (r *Reader) ReadFixedBytes(offset, length int) ([]byte, error) {
	if err := r.check(offset, length); err != nil {
		return nil, err
	}
	return r.buf[offset : offset+length], nil
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// ReadUTF16String decodes `length` bytes (not characters) of UTF-16LE
// text starting at offset. Malformed surrogate pairs are replaced with
// the Unicode replacement character by the decoder rather than
// aborting the whole record.
func (r *Reader) ReadUTF16String(offset, length int) (string, error) {
	raw, err := r.ReadFixedBytes(offset, length)
	if err != nil {
		return "", err
	}
	decoded, err := utf16le.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
