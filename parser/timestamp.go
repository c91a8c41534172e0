package parser

import "time"

// windowsEpochDiff is the number of seconds between the Windows FILETIME
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const windowsEpochDiff = 11644473600

const ticksPerSecond = 10000000

// Timestamp wraps a decoded Windows FILETIME value. The zero value
// represents a FILETIME of 0 (field never set), the same as
// DecodeFiletime(0), distinct from a successfully decoded time at the
// Unix epoch.
type Timestamp struct {
	t       time.Time
	zero    bool
	corrupt bool
}

// DecodeFiletime converts a raw 64-bit FILETIME tick count into a
// Timestamp. A zero tick count means the field was never populated; a
// tick count that would decode to a time after the end of year 9999
// is flagged corrupt rather than silently wrapping.
func DecodeFiletime(ticks uint64) Timestamp {
	if ticks == 0 {
		return Timestamp{zero: true}
	}

	seconds := int64(ticks / ticksPerSecond)
	remainderTicks := ticks % ticksPerSecond
	nanos := int64(remainderTicks) * 100

	unixSeconds := seconds - windowsEpochDiff
	// A FILETIME this large overflows any sane calendar date; treat it
	// as corrupt instead of handing callers garbage.
	if unixSeconds < -windowsEpochDiff || unixSeconds > 253402300799 {
		return Timestamp{corrupt: true}
	}

	return Timestamp{t: time.Unix(unixSeconds, nanos).UTC()}
}

func (ts Timestamp) IsZero() bool    { return ts.zero || (!ts.corrupt && ts.t.IsZero()) }
func (ts Timestamp) IsCorrupt() bool { return ts.corrupt }
func (ts Timestamp) Time() time.Time { return ts.t }

// Before reports whether ts is strictly earlier than other. Zero and
// corrupt timestamps are never "before" anything - callers that care
// about that distinction should check IsZero/IsCorrupt first.
func (ts Timestamp) Before(other Timestamp) bool {
	if ts.IsZero() || ts.corrupt || other.IsZero() || other.corrupt {
		return false
	}
	return ts.t.Before(other.t)
}

func (ts Timestamp) After(other Timestamp) bool {
	if ts.IsZero() || ts.corrupt || other.IsZero() || other.corrupt {
		return false
	}
	return ts.t.After(other.t)
}

// Format renders the timestamp as an ISO-8601 string with millisecond
// precision, converting to loc only at the point of serialization. A
// nil loc formats in UTC.
func (ts Timestamp) Format(loc *time.Location) string {
	switch {
	case ts.IsZero():
		return "Not defined"
	case ts.corrupt:
		return "Invalid timestamp"
	}
	t := ts.t
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02T15:04:05.000Z07:00")
}

// UnixMicroseconds returns microseconds-of-second, used by the
// usec-zero anomaly check. Zero/corrupt timestamps return 0, false.
func (ts Timestamp) UnixMicroseconds() (int, bool) {
	if ts.IsZero() || ts.corrupt {
		return 0, false
	}
	return ts.t.Nanosecond() / 1000, true
}
