// Package elapsed renders the time between two loosely formatted timestamps
// as compact strings such as "1h 2m 30s".
package elapsed

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/etlwatch/pkg/timestamp"
)

// Placeholder is returned when no duration can be computed.
const Placeholder = "-"

// Formatter formats durations between raw timestamps.
type Formatter struct {
	clock      Clock
	normalizer *timestamp.Normalizer
}

// Option configures the Formatter.
type Option func(*Formatter)

// WithClock sets the clock used when no end time is given.
func WithClock(c Clock) Option {
	return func(f *Formatter) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithNormalizer sets the normalizer used to interpret raw timestamps.
func WithNormalizer(n *timestamp.Normalizer) Option {
	return func(f *Formatter) {
		if n != nil {
			f.normalizer = n
		}
	}
}

// New creates a Formatter reading the system clock and local time.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		clock:      SystemClock{},
		normalizer: timestamp.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders the time from startRaw to endRaw. An empty endRaw means the
// job is still running and the formatter's clock supplies the end.
func (f *Formatter) Format(startRaw, endRaw string) string {
	return f.FormatAt(startRaw, endRaw, f.clock.Now())
}

// FormatAt is Format against a caller-supplied "now".
func (f *Formatter) FormatAt(startRaw, endRaw string, now time.Time) string {
	start := f.normalizer.Normalize(startRaw)
	end := f.normalizer.Normalize(endRaw)
	return FormatInstants(start, end, now)
}

var defaultFormatter = New()

// Format renders the time from startRaw to endRaw using the wall clock for
// jobs without an end.
func Format(startRaw, endRaw string) string {
	return defaultFormatter.Format(startRaw, endRaw)
}

// FormatAt renders the time from startRaw to endRaw, using now for jobs
// without an end. Capture now once per rendered view.
func FormatAt(startRaw, endRaw string, now time.Time) string {
	return defaultFormatter.FormatAt(startRaw, endRaw, now)
}

// FormatInstants renders already normalized instants.
func FormatInstants(start, end timestamp.Instant, now time.Time) string {
	secs, ok := Seconds(start, end, now)
	if !ok {
		return Placeholder
	}
	return FormatSeconds(secs)
}

// Seconds returns the whole seconds from start to end, floored and clamped at
// zero. An absent end means now. It returns false when start is absent or
// unparseable, or end is present but unparseable.
func Seconds(start, end timestamp.Instant, now time.Time) (int64, bool) {
	if !start.IsValid() {
		return 0, false
	}

	var until time.Time
	switch end.State {
	case timestamp.StateValid:
		until = end.Time
	case timestamp.StateAbsent:
		until = now
	default:
		return 0, false
	}

	d := until.Sub(start.Time)
	if d < 0 {
		return 0, true
	}
	return int64(d / time.Second), true
}

// FormatSeconds renders total seconds as "1h 5m 30s", "5m 30s" or "30s".
// Hours appear only when non-zero, minutes when hours or minutes are non-zero.
// Negative totals render as "0s".
func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if hours > 0 || minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
