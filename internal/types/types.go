package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a date range cannot be built
var ErrInvalidRange = errors.New("invalid date range")

// OperatingWindow describes the daily operating hours of a call center.
// StartHour and EndHour are fractional hours of the wall-clock day (8.5 = 8:30).
type OperatingWindow struct {
	StartHour     float64        `json:"startHour" yaml:"startHour"`
	EndHour       float64        `json:"endHour" yaml:"endHour"`
	Days          []time.Weekday `json:"days" yaml:"days"`
	TimezoneLabel string         `json:"timezone" yaml:"timezone"`
}

// OperatesOn reports whether the center is open on the given weekday
func (w OperatingWindow) OperatesOn(day time.Weekday) bool {
	for _, d := range w.Days {
		if d == day {
			return true
		}
	}
	return false
}

// CallCenterConfig is the static configuration of one call center
type CallCenterConfig struct {
	ID          string           `json:"id" yaml:"id"`
	DisplayName string           `json:"name" yaml:"name"`
	DIDs        []string         `json:"dids,omitempty" yaml:"dids"`
	Window      *OperatingWindow `json:"window,omitempty" yaml:"window"`
}

// HasHours reports whether operating hours are configured
func (c CallCenterConfig) HasHours() bool {
	return c.Window != nil
}

// Window is a half-open time interval [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Windows holds the in-hours and after-hours windows generated for a range
type Windows struct {
	InHours    []Window `json:"inHours"`
	AfterHours []Window `json:"afterHours"`
	// Truncated is set when an after-hours window was omitted because no
	// operating day was found within the 7-day search bound.
	Truncated bool `json:"truncated,omitempty"`
}

// DayRange is an inclusive range of whole UTC days
type DayRange struct {
	Start time.Time `json:"start"` // 00:00:00 UTC of the first day
	End   time.Time `json:"end"`   // 23:59:59.999999999 UTC of the last day
}

// NewDayRange builds a DayRange covering the calendar days of from and to
func NewDayRange(from, to time.Time) (DayRange, error) {
	from = from.UTC()
	to = to.UTC()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return DayRange{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, from.Format(DateLayout), to.Format(DateLayout))
	}
	return DayRange{Start: start, End: end}, nil
}

// ParseDayRange parses two YYYY-MM-DD dates into a DayRange
func ParseDayRange(from, to string) (DayRange, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return DayRange{}, fmt.Errorf("%w: from: %v", ErrInvalidRange, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return DayRange{}, fmt.Errorf("%w: to: %v", ErrInvalidRange, err)
	}
	return NewDayRange(f, t)
}

// Contains reports whether t is within the range, both bounds inclusive
func (r DayRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DateKeys returns the YYYY-MM-DD partition keys covered by the range
func (r DayRange) DateKeys() []string {
	var keys []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(DateLayout))
	}
	return keys
}

func (r DayRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// DateLayout is the partition key and query parameter date format
const DateLayout = "2006-01-02"
