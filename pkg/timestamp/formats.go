package timestamp

import "regexp"

// Layout is a directly interpretable date/time format.
type Layout struct {
	Name    string // Human-readable name
	Layout  string // Go time layout for parsing
	Example string // Example value
}

// DayFirstPattern matches D/M/YYYY with an optional H:mm:ss time part.
// Day, month, hour, minute and second take one or two digits, the year exactly four.
var DayFirstPattern = regexp.MustCompile(
	`^(?P<day>\d{1,2})/(?P<month>\d{1,2})/(?P<year>\d{4})` +
		`(?:[ T]+(?P<hour>\d{1,2})?(?::(?P<minute>\d{1,2}))?(?::(?P<second>\d{1,2}))?)?$`)

// DefaultLayouts returns the layouts tried before the day-first fallback.
// Zone-bearing layouts come before their zone-less counterparts.
// Slash dates are deliberately absent so that they always read day first.
func DefaultLayouts() []Layout {
	return []Layout{
		{
			Name:    "RFC 3339",
			Layout:  "2006-01-02T15:04:05Z07:00",
			Example: "2024-01-15T10:30:00+07:00",
		},
		{
			Name:    "ISO 8601",
			Layout:  "2006-01-02T15:04:05",
			Example: "2024-01-15T10:30:00",
		},
		{
			Name:    "ISO 8601 without seconds",
			Layout:  "2006-01-02T15:04",
			Example: "2024-01-15T10:30",
		},
		{
			Name:    "Datetime with zone (space-separated)",
			Layout:  "2006-01-02 15:04:05Z07:00",
			Example: "2024-01-15 10:30:00Z",
		},
		{
			Name:    "Datetime (space-separated)",
			Layout:  "2006-01-02 15:04:05",
			Example: "2024-01-15 10:30:00",
		},
		{
			Name:    "Datetime without seconds",
			Layout:  "2006-01-02 15:04",
			Example: "2024-01-15 10:30",
		},
		{
			Name:    "Date",
			Layout:  "2006-01-02",
			Example: "2024-01-15",
		},
		{
			Name:    "RFC 1123 numeric zone",
			Layout:  "Mon, 02 Jan 2006 15:04:05 -0700",
			Example: "Mon, 15 Jan 2024 10:30:00 +0700",
		},
		{
			Name:    "RFC 1123",
			Layout:  "Mon, 02 Jan 2006 15:04:05 MST",
			Example: "Mon, 15 Jan 2024 10:30:00 GMT",
		},
		{
			Name:    "Unix date",
			Layout:  "Mon Jan _2 15:04:05 MST 2006",
			Example: "Mon Jan 15 10:30:00 UTC 2024",
		},
		{
			Name:    "ANSI C",
			Layout:  "Mon Jan _2 15:04:05 2006",
			Example: "Mon Jan 15 10:30:00 2024",
		},
		{
			Name:    "Month name with year",
			Layout:  "Jan 2 2006 15:04:05",
			Example: "Jan 15 2024 10:30:00",
		},
		{
			Name:    "Month name, comma",
			Layout:  "Jan 2, 2006 15:04:05",
			Example: "Jan 15, 2024 10:30:00",
		},
		{
			Name:    "Month name date",
			Layout:  "Jan 2, 2006",
			Example: "Jan 15, 2024",
		},
	}
}
