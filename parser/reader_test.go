package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderBasicFields(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 0x42
	buf[1], buf[2] = 0x34, 0x12
	buf[4], buf[5], buf[6], buf[7] = 0x78, 0x56, 0x34, 0x12

	r := NewReader(buf)

	v8, err := r.ReadU8(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v8)

	v16, err := r.ReadU16(1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	v32, err := r.ReadU32(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v32)
}

func TestReaderOutOfBounds(t *testing.T) {
	r := NewReader(make([]byte, 4))
	_, err := r.ReadU32(2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = r.ReadFixedBytes(0, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReadUTF16String(t *testing.T) {
	// "AB" in UTF-16LE
	buf := []byte{0x41, 0x00, 0x42, 0x00}
	r := NewReader(buf)
	s, err := r.ReadUTF16String(0, 4)
	require.NoError(t, err)
	assert.Equal(t, "AB", s)
}
