package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFiletimeZero(t *testing.T) {
	ts := DecodeFiletime(0)
	assert.True(t, ts.IsZero())
	assert.Equal(t, "Not defined", ts.Format(nil))
}

func TestDecodeFiletimeKnownValue(t *testing.T) {
	// 2020-01-01T00:00:00Z in FILETIME ticks.
	unixSeconds := int64(1577836800)
	ticks := uint64(unixSeconds+windowsEpochDiff) * ticksPerSecond

	ts := DecodeFiletime(ticks)
	assert.False(t, ts.IsZero())
	assert.False(t, ts.IsCorrupt())
	assert.Equal(t, int64(1577836800), ts.Time().Unix())
}

func TestTimestampBeforeAfter(t *testing.T) {
	early := DecodeFiletime(uint64(1000000000+windowsEpochDiff) * ticksPerSecond)
	late := DecodeFiletime(uint64(2000000000+windowsEpochDiff) * ticksPerSecond)

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.False(t, late.Before(early))
}

func TestTimestampCorruptNeverOrders(t *testing.T) {
	corrupt := DecodeFiletime(^uint64(0))
	normal := DecodeFiletime(uint64(1000000000+windowsEpochDiff) * ticksPerSecond)

	assert.True(t, corrupt.IsCorrupt())
	assert.False(t, corrupt.Before(normal))
	assert.False(t, normal.Before(corrupt))
}

func TestUnixMicroseconds(t *testing.T) {
	ticks := uint64(1000000000+windowsEpochDiff) * ticksPerSecond
	ts := DecodeFiletime(ticks)
	usec, ok := ts.UnixMicroseconds()
	assert.True(t, ok)
	assert.Equal(t, 0, usec)

	zero := DecodeFiletime(0)
	_, ok = zero.UnixMicroseconds()
	assert.False(t, ok)
}
