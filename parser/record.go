package parser

// RecordFlags is the MFT_ENTRY.flags bitmask.
type RecordFlags uint16

const (
	FlagInUse        RecordFlags = 0x0001
	FlagIsDirectory  RecordFlags = 0x0002
	FlagIsExtension  RecordFlags = 0x0004
	FlagSpecialIndex RecordFlags = 0x0008
)

func (f RecordFlags) InUse() bool        { return f&FlagInUse != 0 }
func (f RecordFlags) IsDirectory() bool  { return f&FlagIsDirectory != 0 }
func (f RecordFlags) IsExtension() bool  { return f&FlagIsExtension != 0 }
func (f RecordFlags) HasSpecialIndex() bool { return f&FlagSpecialIndex != 0 }

// Record is one fully decoded MFT entry: header fields plus its
// attribute chain, after fixup and (for non-base records referenced
// from an $ATTRIBUTE_LIST) extension folding.
type Record struct {
	RecordNumber        uint64
	SequenceNumber      uint16
	Flags               RecordFlags
	LinkCount           uint16
	BaseRecordNumber    uint64
	BaseSequenceNumber  uint16
	LogFileSequenceNumber uint64
	UsedSize            uint32
	AllocatedSize       uint32
	Attributes          []Attribute
	FixupCorrupt        bool
	TruncatedAttributes bool

	// Incomplete is set by FoldExtensions when an $ATTRIBUTE_LIST
	// entry names an extension record that was never decoded - the
	// base record is still assembled and emitted, just missing
	// whatever attributes that extension held.
	Incomplete bool
}

// IsBaseRecord reports whether this record is its own base record
// (base_record_reference == 0), as opposed to an extension record
// whose attributes belong to some other base record.
func (r *Record) IsBaseRecord() bool {
	return r.BaseRecordNumber == 0
}

// Attr returns the first attribute of the given type, or nil.
func (r *Record) Attr(t AttributeType) *Attribute {
	for i := range r.Attributes {
		if r.Attributes[i].Type == t {
			return &r.Attributes[i]
		}
	}
	return nil
}

// AttrsOfType returns every attribute instance of the given type -
// used for $FILE_NAME (multiple hard links) and $DATA (multiple ADS).
func (r *Record) AttrsOfType(t AttributeType) []*Attribute {
	var out []*Attribute
	for i := range r.Attributes {
		if r.Attributes[i].Type == t {
			out = append(out, &r.Attributes[i])
		}
	}
	return out
}

// AssembleRecord decodes a single fixed-up MFT record buffer into a
// Record. recordSize is the caller-configured per-entry size (1024 or
// 4096 bytes); the buffer passed in must already be exactly that long
// and fixed up via ApplyFixup.
func AssembleRecord(buf []byte, recordSize int) (*Record, error) {
	r := NewReader(buf)

	magic, err := r.ReadFixedBytes(offMagic, 4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "FILE" && string(magic) != "BAAD" {
		return nil, ErrBadMagic
	}

	seq, err := r.ReadU16(offSequenceNumber)
	if err != nil {
		return nil, err
	}
	linkCount, err := r.ReadU16(offHardLinkCount)
	if err != nil {
		return nil, err
	}
	attrOffset, err := r.ReadU16(offFirstAttributeOff)
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadU16(offFlags)
	if err != nil {
		return nil, err
	}
	usedSize, err := r.ReadU32(offUsedSize)
	if err != nil {
		return nil, err
	}
	allocatedSize, err := r.ReadU32(offAllocatedSize)
	if err != nil {
		return nil, err
	}
	baseRef, err := r.ReadU64(offBaseRecordRef)
	if err != nil {
		return nil, err
	}
	logFileSeq, err := r.ReadU64(offLogFileSeqNumber)
	if err != nil {
		return nil, err
	}
	recordNumber, err := r.ReadU32(offRecordNumber)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		RecordNumber:          uint64(recordNumber),
		SequenceNumber:        seq,
		Flags:                 RecordFlags(flags),
		LinkCount:             linkCount,
		BaseRecordNumber:      baseRef & 0x0000FFFFFFFFFFFF,
		BaseSequenceNumber:    uint16(baseRef >> 48),
		LogFileSequenceNumber: logFileSeq,
		UsedSize:              usedSize,
		AllocatedSize:         allocatedSize,
	}

	if int(usedSize) > recordSize || int(usedSize) < int(attrOffset) {
		rec.TruncatedAttributes = true
		usedSize = uint32(recordSize)
	}

	rec.Attributes = DecodeAttributes(buf, int(attrOffset), int(usedSize))

	return rec, nil
}

// FoldExtensions merges attributes from extension records (flagged
// IsExtension, pointed to by a base record's $ATTRIBUTE_LIST) into
// their base record's attribute chain. records is keyed by record
// number. This mirrors the teacher's GetDirectAttribute /
// ATTRIBUTE_LIST.Attributes() non-recursive fold, which exists
// specifically to avoid the infinite loops malformed attribute lists
// can otherwise cause.
func FoldExtensions(base *Record, records map[uint64]*Record) {
	list := base.Attr(AttrAttributeList)
	if list == nil {
		return
	}
	entries, ok := list.Payload.([]AttributeListEntry)
	if !ok {
		return
	}

	seen := map[uint64]bool{base.RecordNumber: true}
	for _, entry := range entries {
		if entry.BaseRecordNumber == base.RecordNumber || seen[entry.BaseRecordNumber] {
			continue
		}
		seen[entry.BaseRecordNumber] = true

		ext, ok := records[entry.BaseRecordNumber]
		if !ok || ext == nil {
			base.Incomplete = true
			continue
		}
		base.Attributes = append(base.Attributes, ext.Attributes...)
	}
}
