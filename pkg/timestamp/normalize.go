package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Normalizer interprets raw date strings. It is immutable after construction
// and safe for concurrent use.
type Normalizer struct {
	location *time.Location
	layouts  []Layout
	fallback *regexp.Regexp
}

// Option configures the Normalizer.
type Option func(*Normalizer)

// WithLocation sets the location zone-less values are interpreted in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithLayouts replaces the directly interpretable layouts.
func WithLayouts(layouts []Layout) Option {
	return func(n *Normalizer) {
		n.layouts = layouts
	}
}

// WithFallbackPattern replaces the day-first fallback pattern. The pattern must
// use the named groups day, month and year; hour, minute and second are optional.
func WithFallbackPattern(re *regexp.Regexp) Option {
	return func(n *Normalizer) {
		if re != nil {
			n.fallback = re
		}
	}
}

// New creates a Normalizer with the default layouts and day-first fallback.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		location: time.Local,
		layouts:  DefaultLayouts(),
		fallback: DayFirstPattern,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize interprets raw with the default Normalizer in the local timezone.
func Normalize(raw string) Instant {
	return defaultNormalizer.Normalize(raw)
}

// Location returns the location zone-less values are interpreted in.
func (n *Normalizer) Location() *time.Location {
	return n.location
}

// Normalize interprets raw as an instant. It never fails: empty input is
// reported as absent and anything no format accepts as unparseable.
func (n *Normalizer) Normalize(raw string) Instant {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Instant{Raw: raw, State: StateAbsent}
	}

	if t, _, ok := n.parseLayouts(value); ok {
		return Instant{Raw: raw, State: StateValid, Time: t}
	}

	if t, ok := ParseWithPattern(n.fallback, value, n.location); ok {
		return Instant{Raw: raw, State: StateValid, Time: t}
	}

	return Instant{Raw: raw, State: StateUnparseable}
}

// parseLayouts tries each layout in order and returns the first success.
func (n *Normalizer) parseLayouts(value string) (time.Time, *Layout, bool) {
	for i := range n.layouts {
		t, err := time.ParseInLocation(n.layouts[i].Layout, value, n.location)
		if err == nil {
			return t, &n.layouts[i], true
		}
	}
	return time.Time{}, nil, false
}

// ParseWithPattern builds an instant from the named capture groups of re.
// The groups day, month (1-12) and year are required; hour, minute and second
// default to zero when the group is missing or empty. Out-of-range values
// roll over the way time.Date normalizes them. A nil loc means time.Local.
func ParseWithPattern(re *regexp.Regexp, raw string, loc *time.Location) (time.Time, bool) {
	if re == nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	fields, ok := matchFields(re, strings.TrimSpace(raw))
	if !ok {
		return time.Time{}, false
	}

	year, ok := fields.required("year")
	if !ok {
		return time.Time{}, false
	}
	month, ok := fields.required("month")
	if !ok {
		return time.Time{}, false
	}
	day, ok := fields.required("day")
	if !ok {
		return time.Time{}, false
	}

	hour, ok := fields.optional("hour")
	if !ok {
		return time.Time{}, false
	}
	minute, ok := fields.optional("minute")
	if !ok {
		return time.Time{}, false
	}
	second, ok := fields.optional("second")
	if !ok {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

// groupValues maps capture group names to their matched text.
type groupValues map[string]string

func matchFields(re *regexp.Regexp, value string) (groupValues, bool) {
	matches := re.FindStringSubmatch(value)
	if matches == nil {
		return nil, false
	}

	fields := make(groupValues, len(matches))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		fields[name] = matches[i]
	}
	return fields, true
}

func (g groupValues) required(name string) (int, bool) {
	s, present := g[name]
	if !present || s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (g groupValues) optional(name string) (int, bool) {
	s := g[name]
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
