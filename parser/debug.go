package parser

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// DebugLevel controls how much decode-time tracing this package
// emits. It is a package variable rather than a parameter threaded
// through every call because debug tracing is a cross-cutting concern
// turned on for a whole run, never per-record.
var DebugLevel int

func init() {
	if os.Getenv("MFTKIT_DEBUG") != "" {
		DebugLevel = 1
	}
}

// Debug dumps v with spew when DebugLevel is at least level. The CLI's
// repeatable -d flag sets DebugLevel.
func Debug(level int, v interface{}) {
	if DebugLevel >= level {
		spew.Dump(v)
	}
}

// Printf writes a trace line to stderr when DebugLevel is at least
// level, mirroring the teacher's gated Printf helper.
func Printf(level int, format string, args ...interface{}) {
	if DebugLevel >= level {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
