package parser

import "encoding/binary"

// MFT record header field offsets. Names follow analyzeMFT's
// constants.py, which is the byte-for-byte ground truth this decoder
// is checked against.
const (
	offMagic              = 0
	offFixupOffset        = 4
	offFixupCount         = 6
	offLogFileSeqNumber   = 8
	offSequenceNumber     = 16
	offHardLinkCount      = 18
	offFirstAttributeOff  = 20
	offFlags              = 22
	offUsedSize           = 24
	offAllocatedSize      = 28
	offBaseRecordRef      = 32
	offNextAttributeID    = 40
	offRecordNumber       = 44
)

// ApplyFixup walks the update sequence array embedded at the end of
// every sector in a multi-sector record and restores the two bytes
// NTFS overwrites with the USN during a transfer. It mutates buf in
// place. The boolean return reports whether any sector's saved bytes
// did not match its USA slot - such a record is still handed back to
// the caller (flagged corrupt) rather than discarded, since the rest
// of the record is frequently still usable.
func ApplyFixup(buf []byte, sectorSize int) (corrupt bool, err error) {
	r := NewReader(buf)

	usaOffset, err := r.ReadU16(offFixupOffset)
	if err != nil {
		return false, err
	}
	usaCount, err := r.ReadU16(offFixupCount)
	if err != nil {
		return false, err
	}
	if usaCount == 0 {
		return false, nil
	}

	usn, err := r.ReadU16(int(usaOffset))
	if err != nil {
		return false, err
	}

	// usaCount includes the USN slot itself plus one entry per sector.
	numSectors := int(usaCount) - 1
	for i := 0; i < numSectors; i++ {
		sectorEnd := (i + 1) * sectorSize
		if sectorEnd > len(buf) {
			break
		}
		lastWordOffset := sectorEnd - 2

		savedOffset := int(usaOffset) + 2 + i*2
		saved, err := r.ReadU16(savedOffset)
		if err != nil {
			return true, nil
		}

		actual, err := r.ReadU16(lastWordOffset)
		if err != nil {
			return true, nil
		}
		if actual != usn {
			corrupt = true
			continue
		}

		binary.LittleEndian.PutUint16(buf[lastWordOffset:], saved)
	}

	return corrupt, nil
}
