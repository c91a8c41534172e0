package testmft

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesFixedUpRecords(t *testing.T) {
	img := Generate(Options{NumRecords: 3})
	require.Equal(t, (3+RootRecordNumber+1)*RecordSize, len(img))

	root := img[RootRecordNumber*RecordSize : RootRecordNumber*RecordSize+RecordSize]
	assert.Equal(t, "FILE", string(root[0:4]))

	firstFile := img[(RootRecordNumber+1)*RecordSize : (RootRecordNumber+2)*RecordSize]
	assert.Equal(t, "FILE", string(firstFile[0:4]))

	recordNum := binary.LittleEndian.Uint32(firstFile[44:])
	assert.Equal(t, uint32(RootRecordNumber+1), recordNum)

	// Both sector endings carry the 0xAA55 update sequence number.
	assert.Equal(t, uint16(0xAA55), binary.LittleEndian.Uint16(firstFile[SectorSize-2:]))
	assert.Equal(t, uint16(0xAA55), binary.LittleEndian.Uint16(firstFile[RecordSize-2:]))
}

func TestGenerateAttributeChainIsWellFormed(t *testing.T) {
	img := Generate(Options{NumRecords: 1})
	rec := img[(RootRecordNumber+1)*RecordSize : (RootRecordNumber+2)*RecordSize]

	attrOffset := int(binary.LittleEndian.Uint16(rec[20:]))
	assert.Equal(t, 56, attrOffset)

	// Walk attribute chain by the header's length field and confirm we
	// reach the 0xFFFFFFFF end marker without running off the buffer.
	offset := attrOffset
	var sawEndMarker bool
	for offset+4 <= len(rec) {
		typeCode := binary.LittleEndian.Uint32(rec[offset:])
		if typeCode == 0xFFFFFFFF {
			sawEndMarker = true
			break
		}
		length := binary.LittleEndian.Uint32(rec[offset+4:])
		require.NotZero(t, length)
		offset += int(length)
	}
	assert.True(t, sawEndMarker)
}

func TestGenerateAnomalousProducesTimeShift(t *testing.T) {
	img := Generate(Options{NumRecords: 2, Anomalous: true})
	rec := img[(RootRecordNumber+1)*RecordSize : (RootRecordNumber+2)*RecordSize]

	attrOffset := 56
	// $STANDARD_INFORMATION: type 0x10
	siType := binary.LittleEndian.Uint32(rec[attrOffset:])
	require.Equal(t, uint32(0x10), siType)
	siLength := binary.LittleEndian.Uint32(rec[attrOffset+4:])
	siCreated := binary.LittleEndian.Uint64(rec[attrOffset+24:])

	fnOffset := attrOffset + int(siLength)
	fnType := binary.LittleEndian.Uint32(rec[fnOffset:])
	require.Equal(t, uint32(0x30), fnType)
	fnCreated := binary.LittleEndian.Uint64(rec[fnOffset+24+8:])

	assert.NotEqual(t, siCreated, fnCreated)
}
