package normalize

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses a source timestamp string. The result is always UTC.
// A timestamp without a zone is taken to be UTC, not wall-clock time: hours
// are evaluated after shifting to the WALL_CLOCK_OFFSET location, so a
// zone-less "2024-01-02 18:00:00" is 10:00 at the default -08:00 offset.
// Sources that record local wall-clock time must include their offset.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// resolveTimestamp returns the first parsable candidate
func resolveTimestamp(candidates ...string) (time.Time, bool) {
	for _, c := range candidates {
		if t, ok := ParseTimestamp(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// PhoneKey reduces a phone number to digits, keeping the last 10.
// An empty result is nil, never an empty string.
func PhoneKey(phone string) *string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return nil
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return &digits
}

// firstNonEmpty returns a pointer to the first non-blank value
func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return &v
		}
	}
	return nil
}

// firstPhone returns the phone key of the first candidate with any digits
func firstPhone(values ...string) *string {
	for _, v := range values {
		if key := PhoneKey(v); key != nil {
			return key
		}
	}
	return nil
}
