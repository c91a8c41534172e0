package parser

import "fmt"

// FileAttributeFlags mirrors the Windows FILE_ATTRIBUTE_* bitmask found
// in both $STANDARD_INFORMATION and $FILE_NAME.
type FileAttributeFlags uint32

const (
	FileAttrReadOnly  FileAttributeFlags = 0x0001
	FileAttrHidden    FileAttributeFlags = 0x0002
	FileAttrSystem    FileAttributeFlags = 0x0004
	FileAttrDirectory FileAttributeFlags = 0x0010
	FileAttrArchive   FileAttributeFlags = 0x0020
	FileAttrCompressed FileAttributeFlags = 0x0800
	FileAttrEncrypted FileAttributeFlags = 0x4000
)

// StandardInformation is the decoded $STANDARD_INFORMATION (0x10)
// content: authoritative timestamps and file attribute flags that
// survive filename renames.
type StandardInformation struct {
	Created          Timestamp
	Modified         Timestamp
	MFTModified      Timestamp
	Accessed         Timestamp
	FileAttributes   FileAttributeFlags
	OwnerID          uint32
	SecurityID       uint32
	QuotaCharged     uint64
	USN              uint64
}

func decodeStandardInformation(content []byte) (*StandardInformation, error) {
	r := NewReader(content)
	created, err := r.ReadU64(0)
	if err != nil {
		return nil, err
	}
	modified, err := r.ReadU64(8)
	if err != nil {
		return nil, err
	}
	mftModified, err := r.ReadU64(16)
	if err != nil {
		return nil, err
	}
	accessed, err := r.ReadU64(24)
	if err != nil {
		return nil, err
	}
	attrs, err := r.ReadU32(32)
	if err != nil {
		return nil, err
	}

	si := &StandardInformation{
		Created:        DecodeFiletime(created),
		Modified:       DecodeFiletime(modified),
		MFTModified:    DecodeFiletime(mftModified),
		Accessed:       DecodeFiletime(accessed),
		FileAttributes: FileAttributeFlags(attrs),
	}

	// Fields below only exist in the NTFS 3.0+ layout (Windows 2000+);
	// older volumes truncate STANDARD_INFORMATION at 48 bytes.
	if ownerID, err := r.ReadU32(48); err == nil {
		si.OwnerID = ownerID
	}
	if secID, err := r.ReadU32(52); err == nil {
		si.SecurityID = secID
	}
	if quota, err := r.ReadU64(56); err == nil {
		si.QuotaCharged = quota
	}
	if usn, err := r.ReadU64(64); err == nil {
		si.USN = usn
	}

	return si, nil
}

// FileNameNamespace identifies which of the (up to) two hard-link
// records a $FILE_NAME attribute belongs to.
type FileNameNamespace uint8

const (
	NamespacePOSIX      FileNameNamespace = 0
	NamespaceWin32      FileNameNamespace = 1
	NamespaceDOS        FileNameNamespace = 2
	NamespaceWin32AndDOS FileNameNamespace = 3
)

func (n FileNameNamespace) String() string {
	switch n {
	case NamespacePOSIX:
		return "POSIX"
	case NamespaceWin32:
		return "Win32"
	case NamespaceDOS:
		return "DOS"
	case NamespaceWin32AndDOS:
		return "Win32AndDOS"
	default:
		return fmt.Sprintf("unknown(%d)", n)
	}
}

// FileName is the decoded $FILE_NAME (0x30) content: one hard-link's
// name, its parent directory reference, and a second, frequently
// timestomped, copy of the four timestamps.
type FileName struct {
	ParentRecordNumber uint64
	ParentSequence     uint16
	Created            Timestamp
	Modified           Timestamp
	MFTModified        Timestamp
	Accessed           Timestamp
	AllocatedSize      uint64
	RealSize           uint64
	FileAttributes     FileAttributeFlags
	Namespace          FileNameNamespace
	Name               string
}

func decodeFileName(content []byte) (*FileName, error) {
	r := NewReader(content)
	parentRef, err := r.ReadU64(0)
	if err != nil {
		return nil, err
	}
	created, err := r.ReadU64(8)
	if err != nil {
		return nil, err
	}
	modified, err := r.ReadU64(16)
	if err != nil {
		return nil, err
	}
	mftModified, err := r.ReadU64(24)
	if err != nil {
		return nil, err
	}
	accessed, err := r.ReadU64(32)
	if err != nil {
		return nil, err
	}
	allocSize, err := r.ReadU64(40)
	if err != nil {
		return nil, err
	}
	realSize, err := r.ReadU64(48)
	if err != nil {
		return nil, err
	}
	attrs, err := r.ReadU32(56)
	if err != nil {
		return nil, err
	}
	nameLenChars, err := r.ReadU8(64)
	if err != nil {
		return nil, err
	}
	namespace, err := r.ReadU8(65)
	if err != nil {
		return nil, err
	}
	name, err := r.ReadUTF16String(66, int(nameLenChars)*2)
	if err != nil {
		return nil, err
	}

	return &FileName{
		ParentRecordNumber: parentRef & 0x0000FFFFFFFFFFFF,
		ParentSequence:     uint16(parentRef >> 48),
		Created:            DecodeFiletime(created),
		Modified:           DecodeFiletime(modified),
		MFTModified:        DecodeFiletime(mftModified),
		Accessed:           DecodeFiletime(accessed),
		AllocatedSize:      allocSize,
		RealSize:           realSize,
		FileAttributes:     FileAttributeFlags(attrs),
		Namespace:          FileNameNamespace(namespace),
		Name:               name,
	}, nil
}

// ObjectID is the decoded $OBJECT_ID (0x40) content, a set of GUIDs
// used by the distributed link tracking service.
type ObjectID struct {
	ObjectID       string
	BirthVolumeID  string
	BirthObjectID  string
	DomainID       string
}

func decodeObjectID(content []byte) (*ObjectID, error) {
	r := NewReader(content)
	oid, err := r.ReadFixedBytes(0, 16)
	if err != nil {
		return nil, err
	}
	out := &ObjectID{ObjectID: formatGUID(oid)}
	if bvid, err := r.ReadFixedBytes(16, 16); err == nil {
		out.BirthVolumeID = formatGUID(bvid)
	}
	if boid, err := r.ReadFixedBytes(32, 16); err == nil {
		out.BirthObjectID = formatGUID(boid)
	}
	if did, err := r.ReadFixedBytes(48, 16); err == nil {
		out.DomainID = formatGUID(did)
	}
	return out, nil
}

func formatGUID(b []byte) string {
	if len(b) != 16 {
		return ""
	}
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		uint32(b[3])<<24|uint32(b[2])<<16|uint32(b[1])<<8|uint32(b[0]),
		uint16(b[5])<<8|uint16(b[4]),
		uint16(b[7])<<8|uint16(b[6]),
		b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15])
}

// VolumeInformation is the decoded $VOLUME_INFORMATION (0x70) content.
type VolumeInformation struct {
	MajorVersion uint8
	MinorVersion uint8
	Flags        uint16
}

func decodeVolumeInformation(content []byte) (*VolumeInformation, error) {
	r := NewReader(content)
	major, err := r.ReadU8(8)
	if err != nil {
		return nil, err
	}
	minor, err := r.ReadU8(9)
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadU16(10)
	if err != nil {
		return nil, err
	}
	return &VolumeInformation{MajorVersion: major, MinorVersion: minor, Flags: flags}, nil
}
