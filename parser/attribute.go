package parser

import "fmt"

// AttributeType identifies the kind of an NTFS attribute. Values match
// the on-disk type codes exactly, per analyzeMFT's constants.py.
type AttributeType uint32

const (
	AttrStandardInformation AttributeType = 0x10
	AttrAttributeList       AttributeType = 0x20
	AttrFileName            AttributeType = 0x30
	AttrObjectID            AttributeType = 0x40
	AttrSecurityDescriptor  AttributeType = 0x50
	AttrVolumeName          AttributeType = 0x60
	AttrVolumeInformation   AttributeType = 0x70
	AttrData                AttributeType = 0x80
	AttrIndexRoot           AttributeType = 0x90
	AttrIndexAllocation     AttributeType = 0xA0
	AttrBitmap              AttributeType = 0xB0
	AttrReparsePoint        AttributeType = 0xC0
	AttrEAInformation       AttributeType = 0xD0
	AttrEA                  AttributeType = 0xE0
	AttrLoggedUtilityStream AttributeType = 0x100
	attrEndMarker           AttributeType = 0xFFFFFFFF
)

var attributeTypeNames = map[AttributeType]string{
	AttrStandardInformation: "$STANDARD_INFORMATION",
	AttrAttributeList:       "$ATTRIBUTE_LIST",
	AttrFileName:            "$FILE_NAME",
	AttrObjectID:            "$OBJECT_ID",
	AttrSecurityDescriptor:  "$SECURITY_DESCRIPTOR",
	AttrVolumeName:          "$VOLUME_NAME",
	AttrVolumeInformation:   "$VOLUME_INFORMATION",
	AttrData:                "$DATA",
	AttrIndexRoot:           "$INDEX_ROOT",
	AttrIndexAllocation:     "$INDEX_ALLOCATION",
	AttrBitmap:              "$BITMAP",
	AttrReparsePoint:        "$REPARSE_POINT",
	AttrEAInformation:       "$EA_INFORMATION",
	AttrEA:                  "$EA",
	AttrLoggedUtilityStream: "$LOGGED_UTILITY_STREAM",
}

func (t AttributeType) String() string {
	if name, ok := attributeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("$UNKNOWN(0x%X)", uint32(t))
}

const (
	attrFlagCompressed uint16 = 0x0001
	attrFlagEncrypted  uint16 = 0x4000
	attrFlagSparse     uint16 = 0x8000
)

// Attribute is one decoded attribute instance from a record's
// attribute chain. Resident carries the raw content bytes; non-resident
// carries the decoded data runs instead. Payload holds the type-specific
// decode when one exists (*FileName, *StandardInformation, ...).
type Attribute struct {
	Type       AttributeType
	Name       string
	Resident   bool
	Compressed bool
	Encrypted  bool
	Sparse     bool
	Content    []byte // resident content, or the mapping-pairs payload for non-resident
	DataSize   int64
	Runs       []DataRun
	Payload    interface{}

	// RunLengthMismatch is set when a non-resident attribute's decoded
	// data runs don't sum to ceil(allocated-size/cluster-size) - flagged,
	// not fatal.
	RunLengthMismatch bool
}

// DecodeAttributes walks the attribute chain of a single MFT record
// starting at attrOffset, stopping at the 0xFFFFFFFF sentinel or the
// record's used size, whichever comes first. Malformed individual
// attributes are skipped rather than aborting the whole record, since
// a single corrupt attribute should not hide the rest.
func DecodeAttributes(buf []byte, attrOffset, usedSize int) []Attribute {
	var out []Attribute
	r := NewReader(buf)

	offset := attrOffset
	for offset+4 <= usedSize && offset+4 <= len(buf) {
		typeCode, err := r.ReadU32(offset)
		if err != nil {
			break
		}
		if AttributeType(typeCode) == attrEndMarker {
			break
		}

		length, err := r.ReadU32(offset + 4)
		if err != nil || length == 0 || offset+int(length) > len(buf) {
			break
		}

		attr, ok := decodeOneAttribute(r, offset, int(length))
		if ok {
			out = append(out, attr)
		}

		offset += int(length)
	}

	return out
}

func decodeOneAttribute(r *Reader, offset, length int) (Attribute, bool) {
	typeCode, err := r.ReadU32(offset)
	if err != nil {
		return Attribute{}, false
	}
	nonResident, err := r.ReadU8(offset + 8)
	if err != nil {
		return Attribute{}, false
	}
	nameLength, err := r.ReadU8(offset + 9)
	if err != nil {
		return Attribute{}, false
	}
	nameOffset, err := r.ReadU16(offset + 10)
	if err != nil {
		return Attribute{}, false
	}
	flags, err := r.ReadU16(offset + 12)
	if err != nil {
		return Attribute{}, false
	}

	attr := Attribute{
		Type:       AttributeType(typeCode),
		Resident:   nonResident == 0,
		Compressed: flags&attrFlagCompressed != 0,
		Encrypted:  flags&attrFlagEncrypted != 0,
		Sparse:     flags&attrFlagSparse != 0,
	}

	if nameLength > 0 {
		name, err := r.ReadUTF16String(offset+int(nameOffset), int(nameLength)*2)
		if err == nil {
			attr.Name = name
		}
	}

	if attr.Resident {
		contentSize, err := r.ReadU32(offset + 16)
		if err != nil {
			return Attribute{}, false
		}
		contentOffset, err := r.ReadU16(offset + 20)
		if err != nil {
			return Attribute{}, false
		}
		content, err := r.ReadFixedBytes(offset+int(contentOffset), int(contentSize))
		if err != nil {
			return Attribute{}, false
		}
		attr.Content = content
		attr.DataSize = int64(contentSize)
		attr.Payload = decodeResidentPayload(attr.Type, content)
	} else {
		dataSize, err := r.ReadU64(offset + 48)
		if err == nil {
			attr.DataSize = int64(dataSize)
		}
		allocatedSize, allocErr := r.ReadU64(offset + 40)
		runOffset, err := r.ReadU16(offset + 32)
		if err == nil && int(runOffset) < length {
			payload, err := r.ReadFixedBytes(offset+int(runOffset), length-int(runOffset))
			if err == nil {
				attr.Content = payload
				if runs, err := DecodeDataRuns(payload); err == nil {
					attr.Runs = runs
					if allocErr == nil {
						attr.RunLengthMismatch = !runLengthsMatchAllocation(runs, allocatedSize)
					}
				}
			}
		}
	}

	return attr, true
}

func decodeResidentPayload(t AttributeType, content []byte) interface{} {
	switch t {
	case AttrStandardInformation:
		if p, err := decodeStandardInformation(content); err == nil {
			return p
		}
	case AttrFileName:
		if p, err := decodeFileName(content); err == nil {
			return p
		}
	case AttrObjectID:
		if p, err := decodeObjectID(content); err == nil {
			return p
		}
	case AttrVolumeInformation:
		if p, err := decodeVolumeInformation(content); err == nil {
			return p
		}
	case AttrVolumeName:
		r := NewReader(content)
		if name, err := r.ReadUTF16String(0, len(content)); err == nil {
			return name
		}
	case AttrReparsePoint:
		if p, err := decodeReparsePoint(content); err == nil {
			return p
		}
	case AttrSecurityDescriptor:
		if p, err := decodeSecurityDescriptor(content); err == nil {
			return p
		}
	case AttrEAInformation:
		if p, err := decodeEAInformation(content); err == nil {
			return p
		}
	case AttrAttributeList:
		if p, err := decodeAttributeList(content); err == nil {
			return p
		}
	case AttrEA:
		if p, err := decodeEA(content); err == nil {
			return p
		}
	}
	return nil
}
