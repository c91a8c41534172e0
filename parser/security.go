package parser

import "fmt"

// SecurityDescriptor is a best-effort decode of a resident
// $SECURITY_DESCRIPTOR (0x50) header: enough to report the owner and
// group SIDs and a summary of the ACL entry count. Malformed headers
// decode to a zero-value SecurityDescriptor with Malformed set, never
// an error - the caller still emits a row with an empty field and a
// note rather than dropping the attribute.
type SecurityDescriptor struct {
	Revision   uint8
	Control    uint16
	OwnerSID   string
	GroupSID   string
	DACLCount  int
	SACLCount  int
	Malformed  bool
}

func decodeSecurityDescriptor(content []byte) (*SecurityDescriptor, error) {
	r := NewReader(content)
	revision, err := r.ReadU8(0)
	if err != nil {
		return &SecurityDescriptor{Malformed: true}, nil
	}
	control, err := r.ReadU16(2)
	if err != nil {
		return &SecurityDescriptor{Malformed: true}, nil
	}
	ownerOffset, _ := r.ReadU32(4)
	groupOffset, _ := r.ReadU32(8)
	saclOffset, _ := r.ReadU32(12)
	daclOffset, _ := r.ReadU32(16)

	sd := &SecurityDescriptor{Revision: revision, Control: control}

	if ownerOffset > 0 {
		if sid, err := decodeSID(content, int(ownerOffset)); err == nil {
			sd.OwnerSID = sid
		} else {
			sd.Malformed = true
		}
	}
	if groupOffset > 0 {
		if sid, err := decodeSID(content, int(groupOffset)); err == nil {
			sd.GroupSID = sid
		} else {
			sd.Malformed = true
		}
	}
	if saclOffset > 0 {
		if n, err := aceCount(content, int(saclOffset)); err == nil {
			sd.SACLCount = n
		}
	}
	if daclOffset > 0 {
		if n, err := aceCount(content, int(daclOffset)); err == nil {
			sd.DACLCount = n
		}
	}

	return sd, nil
}

// decodeSID renders the SID at offset in S-1-<rev>-<auth>-<sub>... form.
func decodeSID(buf []byte, offset int) (string, error) {
	r := NewReader(buf)
	revision, err := r.ReadU8(offset)
	if err != nil {
		return "", err
	}
	subAuthCount, err := r.ReadU8(offset + 1)
	if err != nil {
		return "", err
	}
	authorityBytes, err := r.ReadFixedBytes(offset+2, 6)
	if err != nil {
		return "", err
	}
	var authority uint64
	for _, b := range authorityBytes {
		authority = authority<<8 | uint64(b)
	}

	sid := fmt.Sprintf("S-%d-%d", revision, authority)
	for i := 0; i < int(subAuthCount); i++ {
		sub, err := r.ReadU32(offset + 8 + i*4)
		if err != nil {
			return "", err
		}
		sid += fmt.Sprintf("-%d", sub)
	}
	return sid, nil
}

// aceCount reads an ACL header at offset and returns its ace count
// without decoding each ACE's mask/SID in full.
func aceCount(buf []byte, offset int) (int, error) {
	r := NewReader(buf)
	count, err := r.ReadU16(offset + 4)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// EAInformation is the decoded $EA_INFORMATION (0xD0) content.
type EAInformation struct {
	PackedEASize   uint16
	NeedEACount    uint16
	UnpackedEASize uint32
}

func decodeEAInformation(content []byte) (*EAInformation, error) {
	r := NewReader(content)
	packed, err := r.ReadU16(0)
	if err != nil {
		return nil, err
	}
	needCount, err := r.ReadU16(2)
	if err != nil {
		return nil, err
	}
	unpacked, err := r.ReadU32(4)
	if err != nil {
		return nil, err
	}
	return &EAInformation{PackedEASize: packed, NeedEACount: needCount, UnpackedEASize: unpacked}, nil
}

// EAEntry is one entry of a decoded $EA (0xE0) attribute's value list.
type EAEntry struct {
	Name  string
	Value []byte
	Flags uint8
}

func decodeEA(content []byte) ([]EAEntry, error) {
	var entries []EAEntry
	r := NewReader(content)
	offset := 0
	for offset+8 <= len(content) {
		nextOffset, err := r.ReadU32(offset)
		if err != nil {
			break
		}
		flags, err := r.ReadU8(offset + 4)
		if err != nil {
			break
		}
		nameLength, err := r.ReadU8(offset + 5)
		if err != nil {
			break
		}
		valueLength, err := r.ReadU16(offset + 6)
		if err != nil {
			break
		}
		name, err := r.ReadFixedBytes(offset+8, int(nameLength))
		if err != nil {
			break
		}
		// Name is stored as ANSI, not UTF-16; EA names are rare enough
		// in practice that a byte-for-byte cast is good enough here.
		value, err := r.ReadFixedBytes(offset+9+int(nameLength), int(valueLength))
		if err != nil {
			break
		}

		entries = append(entries, EAEntry{Name: string(name), Value: value, Flags: flags})

		if nextOffset == 0 {
			break
		}
		offset += int(nextOffset)
	}
	return entries, nil
}

// AttributeListEntry is one entry of a decoded $ATTRIBUTE_LIST (0x20)
// attribute: a pointer to an attribute instance that may live in an
// extension record rather than the base record.
type AttributeListEntry struct {
	Type               AttributeType
	Name               string
	StartingVCN        uint64
	BaseRecordNumber   uint64
	BaseSequenceNumber uint16
	AttributeID        uint16
}

func decodeAttributeList(content []byte) ([]AttributeListEntry, error) {
	var entries []AttributeListEntry
	r := NewReader(content)
	offset := 0
	for offset+26 <= len(content) {
		typeCode, err := r.ReadU32(offset)
		if err != nil {
			break
		}
		recordLength, err := r.ReadU16(offset + 4)
		if err != nil || recordLength == 0 {
			break
		}
		nameLength, err := r.ReadU8(offset + 6)
		if err != nil {
			break
		}
		nameOffset, err := r.ReadU8(offset + 7)
		if err != nil {
			break
		}
		startVCN, err := r.ReadU64(offset + 8)
		if err != nil {
			break
		}
		baseRef, err := r.ReadU64(offset + 16)
		if err != nil {
			break
		}
		attrID, err := r.ReadU16(offset + 24)
		if err != nil {
			break
		}

		entry := AttributeListEntry{
			Type:               AttributeType(typeCode),
			StartingVCN:        startVCN,
			BaseRecordNumber:   baseRef & 0x0000FFFFFFFFFFFF,
			BaseSequenceNumber: uint16(baseRef >> 48),
			AttributeID:        attrID,
		}
		if nameLength > 0 {
			if name, err := r.ReadUTF16String(offset+int(nameOffset), int(nameLength)*2); err == nil {
				entry.Name = name
			}
		}
		entries = append(entries, entry)

		offset += int(recordLength)
	}
	return entries, nil
}
