package timestamp

import (
	"regexp"
	"testing"
	"time"
)

func TestNormalize_States(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		state State
	}{
		{"empty", "", StateAbsent},
		{"whitespace", "   \t", StateAbsent},
		{"iso", "2024-01-15T10:00:00", StateValid},
		{"iso with zone", "2024-01-15T10:00:00Z", StateValid},
		{"day first", "15/1/2024 10:00:00", StateValid},
		{"not a date", "not-a-date", StateUnparseable},
		{"n/a", "n/a", StateUnparseable},
		{"five digit year", "15/1/20245", StateUnparseable},
		{"three digit year", "15/1/202", StateUnparseable},
		{"trailing text", "15/1/2024 garbage", StateUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.State != tt.state {
				t.Errorf("Normalize(%q).State = %v, want %v", tt.raw, got.State, tt.state)
			}
			if got.Raw != tt.raw {
				t.Errorf("Normalize(%q).Raw = %q, want the input unchanged", tt.raw, got.Raw)
			}
		})
	}
}

func TestNormalize_AbsentDiffersFromUnparseable(t *testing.T) {
	absent := Normalize("")
	garbage := Normalize("garbage")

	if absent.State == garbage.State {
		t.Fatalf("absent and unparseable share state %v", absent.State)
	}
	if !absent.IsAbsent() || absent.IsUnparseable() {
		t.Errorf("empty input: IsAbsent=%v IsUnparseable=%v", absent.IsAbsent(), absent.IsUnparseable())
	}
	if !garbage.IsUnparseable() || garbage.IsAbsent() {
		t.Errorf("garbage input: IsAbsent=%v IsUnparseable=%v", garbage.IsAbsent(), garbage.IsUnparseable())
	}
}

func TestNormalize_ISOMatchesStandardLibrary(t *testing.T) {
	inputs := []string{
		"2024-01-15T10:00:00Z",
		"2024-01-15T10:00:00+07:00",
		"2024-06-30T23:59:59-05:00",
		"2024-01-15T10:00:00.123Z",
		"2024-02-29T00:00:00.5+01:00",
	}

	for _, in := range inputs {
		want, err := time.Parse(time.RFC3339Nano, in)
		if err != nil {
			t.Fatalf("time.Parse(%q) error = %v", in, err)
		}
		got := Normalize(in)
		if !got.IsValid() {
			t.Errorf("Normalize(%q) state = %v, want valid", in, got.State)
			continue
		}
		if !got.Time.Equal(want) {
			t.Errorf("Normalize(%q) = %v, want %v", in, got.Time, want)
		}
	}
}

func TestNormalize_ZonelessUsesLocation(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	n := New(WithLocation(loc))

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-15T10:00:00", time.Date(2024, 1, 15, 10, 0, 0, 0, loc)},
		{"2024-01-15 10:00:00", time.Date(2024, 1, 15, 10, 0, 0, 0, loc)},
		{"2024-01-15 10:00", time.Date(2024, 1, 15, 10, 0, 0, 0, loc)},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, loc)},
		{"15/01/2024 10:00:00", time.Date(2024, 1, 15, 10, 0, 0, 0, loc)},
		{"Jan 15 2024 10:00:00", time.Date(2024, 1, 15, 10, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			if !got.IsValid() {
				t.Fatalf("Normalize(%q) state = %v, want valid", tt.raw, got.State)
			}
			if !got.Time.Equal(tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got.Time, tt.want)
			}
		})
	}
}

func TestNormalize_DayFirstComponents(t *testing.T) {
	n := New(WithLocation(time.UTC))

	tests := []struct {
		raw                                  string
		year, month, day, hour, minute, sec int
	}{
		{"5/3/2024 9:5:0", 2024, 3, 5, 9, 5, 0},
		{"15/1/2024", 2024, 1, 15, 0, 0, 0},
		{"15/1/2024 10:00:45", 2024, 1, 15, 10, 0, 45},
		{"01/12/2023 23:59:59", 2023, 12, 1, 23, 59, 59},
		{"1/1/2000 7", 2000, 1, 1, 7, 0, 0},
		{"1/1/2000 7:30", 2000, 1, 1, 7, 30, 0},
		{"  28/2/2024 12:00:00  ", 2024, 2, 28, 12, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			if !got.IsValid() {
				t.Fatalf("Normalize(%q) state = %v, want valid", tt.raw, got.State)
			}
			ts := got.Time
			if ts.Year() != tt.year || int(ts.Month()) != tt.month || ts.Day() != tt.day ||
				ts.Hour() != tt.hour || ts.Minute() != tt.minute || ts.Second() != tt.sec {
				t.Errorf("Normalize(%q) = %v, want %04d-%02d-%02d %02d:%02d:%02d",
					tt.raw, ts, tt.year, tt.month, tt.day, tt.hour, tt.minute, tt.sec)
			}
		})
	}
}

func TestNormalize_DayFirstNotMonthFirst(t *testing.T) {
	got := New(WithLocation(time.UTC)).Normalize("5/3/2024 9:5:0")
	if got.Time.Month() != time.March {
		t.Errorf("month = %v, want March (day-first)", got.Time.Month())
	}
	if got.Time.Day() != 5 {
		t.Errorf("day = %d, want 5", got.Time.Day())
	}
}

func TestNormalize_DefaultsToLocal(t *testing.T) {
	got := Normalize("15/1/2024")
	if got.Time.Location() != time.Local {
		t.Errorf("location = %v, want Local", got.Time.Location())
	}
}

func TestParseWithPattern(t *testing.T) {
	t.Run("custom year-first pattern", func(t *testing.T) {
		re := regexp.MustCompile(`^(?P<year>\d{4})\.(?P<month>\d{1,2})\.(?P<day>\d{1,2})$`)
		got, ok := ParseWithPattern(re, "2024.3.5", time.UTC)
		if !ok {
			t.Fatal("ParseWithPattern() ok = false")
		}
		want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("ParseWithPattern() = %v, want %v", got, want)
		}
	})

	t.Run("missing required group", func(t *testing.T) {
		re := regexp.MustCompile(`^(?P<month>\d{1,2})/(?P<year>\d{4})$`)
		if _, ok := ParseWithPattern(re, "3/2024", time.UTC); ok {
			t.Error("ParseWithPattern() ok = true without a day group")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, ok := ParseWithPattern(DayFirstPattern, "yesterday", time.UTC); ok {
			t.Error("ParseWithPattern() ok = true for unrelated text")
		}
	})

	t.Run("nil pattern", func(t *testing.T) {
		if _, ok := ParseWithPattern(nil, "15/1/2024", time.UTC); ok {
			t.Error("ParseWithPattern() ok = true for nil pattern")
		}
	})

	t.Run("nil location is local", func(t *testing.T) {
		got, ok := ParseWithPattern(DayFirstPattern, "15/1/2024", nil)
		if !ok {
			t.Fatal("ParseWithPattern() ok = false")
		}
		if got.Location() != time.Local {
			t.Errorf("location = %v, want Local", got.Location())
		}
	})

	t.Run("rolls over like time.Date", func(t *testing.T) {
		got, ok := ParseWithPattern(DayFirstPattern, "31/2/2024", time.UTC)
		if !ok {
			t.Fatal("ParseWithPattern() ok = false")
		}
		want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("ParseWithPattern() = %v, want %v", got, want)
		}
	})
}

func TestInstant_Display(t *testing.T) {
	n := New(WithLocation(time.UTC))
	layout := "02/01/2006 15:04:05"

	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-15T10:00:00", "15/01/2024 10:00:00"},
		{"5/3/2024 9:5:0", "05/03/2024 09:05:00"},
		{"n/a", "n/a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.raw).Display(layout); got != tt.want {
			t.Errorf("Normalize(%q).Display() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestInstant_RFC3339(t *testing.T) {
	n := New(WithLocation(time.UTC))

	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-15T10:00:00.5Z", "2024-01-15T10:00:00.5Z"},
		{"31/12/9999 99:0:0", "10000-01-04T03:00:00Z"},
		{"n/a", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.raw).RFC3339(); got != tt.want {
			t.Errorf("Normalize(%q).RFC3339() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateAbsent, "absent"},
		{StateValid, "valid"},
		{StateUnparseable, "unparseable"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestWithLayouts_DisablesDirectParsing(t *testing.T) {
	n := New(WithLayouts(nil), WithLocation(time.UTC))

	if got := n.Normalize("2024-01-15T10:00:00"); !got.IsUnparseable() {
		t.Errorf("ISO input state = %v, want unparseable with no layouts", got.State)
	}
	if got := n.Normalize("15/1/2024"); !got.IsValid() {
		t.Errorf("day-first input state = %v, want valid", got.State)
	}
}
