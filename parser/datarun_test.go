package parser

import (
	"testing"

	althassert "github.com/alecthomas/assert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataRunsSingleRun(t *testing.T) {
	// header 0x31: length field 1 byte, offset field 3 bytes.
	// length=0x10 (16 clusters), LCN delta = 0x001234.
	payload := []byte{0x31, 0x10, 0x34, 0x12, 0x00, 0x00}

	runs, err := DecodeDataRuns(payload)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	althassert.Equal(t, int64(16), runs[0].Length)
	althassert.Equal(t, int64(0x1234), runs[0].LCN)
	assert.False(t, runs[0].Sparse)
}

func TestDecodeDataRunsSparseRun(t *testing.T) {
	// header 0x02 means length field 2 bytes, offset field size 0 (sparse).
	payload := []byte{0x02, 0x00, 0x01, 0x00}
	runs, err := DecodeDataRuns(payload)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Sparse)
	assert.Equal(t, int64(0x0100), runs[0].Length)
}

func TestDecodeDataRunsNegativeOffset(t *testing.T) {
	// A second run whose offset field is negative (moves LCN backwards).
	payload := []byte{
		0x31, 0x05, 0x00, 0x10, 0x00, // first run: LCN = 0x001000
		0x31, 0x05, 0xFF, 0xFF, 0xFF, // second run: delta = -1
		0x00,
	}
	runs, err := DecodeDataRuns(payload)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(0x1000), runs[0].LCN)
	assert.Equal(t, int64(0x0FFF), runs[1].LCN)
}

func TestDecodeDataRunsTruncated(t *testing.T) {
	payload := []byte{0x31, 0x10}
	_, err := DecodeDataRuns(payload)
	assert.ErrorIs(t, err, ErrTruncatedRun)
}

func TestRunLengthsMatchAllocation(t *testing.T) {
	runs := []DataRun{{Length: 8}, {Length: 4}}
	assert.True(t, runLengthsMatchAllocation(runs, 12*clusterSize))
	assert.False(t, runLengthsMatchAllocation(runs[:1], 12*clusterSize))
}
