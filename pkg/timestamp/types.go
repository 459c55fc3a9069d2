// Package timestamp normalizes loosely formatted date strings coming from the
// analytics backend into instants, without ever failing on dirty input.
package timestamp

import "time"

// State describes the outcome of normalizing a raw value.
type State int

const (
	// StateAbsent means no value was supplied (empty or whitespace only).
	StateAbsent State = iota

	// StateValid means the value was interpreted as an instant.
	StateValid

	// StateUnparseable means a value was supplied but matched no known format.
	StateUnparseable
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateValid:
		return "valid"
	case StateUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so states render by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Instant is the three-way result of interpreting a raw string as a point in time.
type Instant struct {
	// Raw is the original input, untrimmed.
	Raw string

	// State tells whether Time is meaningful.
	State State

	// Time is the parsed instant. Zero unless State is StateValid.
	Time time.Time
}

// IsValid reports whether the raw value was parsed.
func (i Instant) IsValid() bool { return i.State == StateValid }

// IsAbsent reports whether no value was supplied.
func (i Instant) IsAbsent() bool { return i.State == StateAbsent }

// IsUnparseable reports whether a value was supplied but not understood.
func (i Instant) IsUnparseable() bool { return i.State == StateUnparseable }

// Display renders the instant for humans. Valid instants use layout,
// unparseable values are returned unchanged and absent values render empty.
func (i Instant) Display(layout string) string {
	switch i.State {
	case StateValid:
		return i.Time.Format(layout)
	case StateUnparseable:
		return i.Raw
	default:
		return ""
	}
}

// RFC3339 renders a valid instant as RFC 3339 with fractional seconds, or ""
// otherwise. Unlike time.Time.MarshalJSON it accepts years past 9999, which
// day-first rollover can produce.
func (i Instant) RFC3339() string {
	if i.State != StateValid {
		return ""
	}
	return i.Time.Format(time.RFC3339Nano)
}
