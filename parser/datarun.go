package parser

// DataRun is one entry of a non-resident attribute's mapping pairs
// array: a run of Length clusters starting at absolute cluster LCN.
// The on-disk offsets are signed deltas from the previous non-sparse
// run's LCN (the first relative to 0); LCN holds their running sum.
// Sparse runs carry Sparse=true and no meaningful LCN.
type DataRun struct {
	Length int64
	LCN    int64
	Sparse bool
}

// DecodeDataRuns decodes the mapping pairs array found in a
// non-resident attribute's data-run payload. Each entry starts with a
// header byte whose low nibble is the byte-length of the run's cluster
// count and whose high nibble is the byte-length of the run's signed
// cluster offset; a header byte of 0 terminates the array. Offsets are
// two's-complement sign extended per the high bit of their most
// significant byte, matching the teacher's RunList() decode.
func DecodeDataRuns(payload []byte) ([]DataRun, error) {
	var runs []DataRun
	offset := 0
	currentLCN := int64(0)

	for offset < len(payload) {
		header := payload[offset]
		if header == 0 {
			break
		}

		lengthSize := int(header & 0x0F)
		offsetSize := int((header >> 4) & 0x0F)
		offset++

		if offset+lengthSize+offsetSize > len(payload) {
			return nil, ErrTruncatedRun
		}

		length := decodeRunField(payload[offset:offset+lengthSize], false)
		offset += lengthSize

		sparse := offsetSize == 0
		var lcn int64
		if !sparse {
			delta := decodeRunField(payload[offset:offset+offsetSize], true)
			currentLCN += delta
			lcn = currentLCN
		}
		offset += offsetSize

		runs = append(runs, DataRun{
			Length: length,
			LCN:    lcn,
			Sparse: sparse,
		})
	}

	return runs, nil
}

// clusterSize is the conventional 4K cluster used when no boot-sector
// geometry is available to check a data-run list's total length
// against its attribute's allocated size.
const clusterSize = 4096

// runLengthsMatchAllocation reports whether the decoded run list's
// total length in clusters equals ceil(allocatedSize / clusterSize).
// Violations are flagged, never fatal.
func runLengthsMatchAllocation(runs []DataRun, allocatedSize uint64) bool {
	var sum int64
	for _, run := range runs {
		sum += run.Length
	}
	expected := int64((allocatedSize + clusterSize - 1) / clusterSize)
	return sum == expected
}

// decodeRunField reads a little-endian field of up to 8 bytes,
// optionally sign-extending it per the high bit of its last byte.
func decodeRunField(raw []byte, signed bool) int64 {
	var v uint64
	for i, b := range raw {
		v |= uint64(b) << (8 * uint(i))
	}
	if signed && len(raw) > 0 && raw[len(raw)-1]&0x80 != 0 {
		v |= ^uint64(0) << (8 * uint(len(raw)))
	}
	return int64(v)
}
