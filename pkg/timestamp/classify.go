package timestamp

import "strings"

// FallbackFormatName names the day-first fallback in classifications.
const FallbackFormatName = "Day-first (D/M/YYYY)"

// Classification explains how a raw value was interpreted.
type Classification struct {
	Instant Instant

	// Format is the name of the layout that accepted the value, empty when none did.
	Format string

	// Fallback is true when only the day-first pattern accepted the value.
	Fallback bool

	// Ambiguous is true when a day-first value would also read as a valid
	// month-first date (both leading numbers are 12 or less and differ).
	Ambiguous bool
}

// AmbiguityNote is shown next to ambiguous day-first values.
const AmbiguityNote = "Slash dates are read day first (DD/MM/YYYY). " +
	"If the producer emits MM/DD/YYYY this value is misread."

// Classify normalizes raw and reports which format accepted it.
func (n *Normalizer) Classify(raw string) Classification {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Classification{Instant: Instant{Raw: raw, State: StateAbsent}}
	}

	if t, layout, ok := n.parseLayouts(value); ok {
		return Classification{
			Instant: Instant{Raw: raw, State: StateValid, Time: t},
			Format:  layout.Name,
		}
	}

	if t, ok := ParseWithPattern(n.fallback, value, n.location); ok {
		c := Classification{
			Instant:  Instant{Raw: raw, State: StateValid, Time: t},
			Format:   FallbackFormatName,
			Fallback: true,
		}
		if fields, matched := matchFields(n.fallback, value); matched {
			day, dayOK := fields.required("day")
			month, monthOK := fields.required("month")
			c.Ambiguous = dayOK && monthOK && day <= 12 && month <= 12 && day != month
		}
		return c
	}

	return Classification{Instant: Instant{Raw: raw, State: StateUnparseable}}
}

// Classify classifies raw with the default Normalizer.
func Classify(raw string) Classification {
	return defaultNormalizer.Classify(raw)
}
