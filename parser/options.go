package parser

// Options controls decode-time behavior shared by the driver and the
// record assembler. It deliberately does not include path-resolution
// knobs (depth, cycle handling) - those live in the pathresolve
// package, which is the only thing that cares about them.
type Options struct {
	// RecordSize overrides record-size autodetection. 0 means "infer
	// from the first record", matching the driver's documented
	// default/4096-tolerant behavior.
	RecordSize int

	// SectorSize is used by the fixup engine to locate each sector's
	// last two bytes. NTFS almost universally uses 512.
	SectorSize int
}

func DefaultOptions() Options {
	return Options{
		RecordSize: 0,
		SectorSize: 512,
	}
}
