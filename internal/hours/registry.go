// Package hours holds the call center operating-hours registry and answers
// in-hours / after-hours questions against it.
package hours

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

var (
	// ErrKeyCollision is returned when two distinct configured centers share a
	// raw key or a separator-stripped key.
	ErrKeyCollision = errors.New("call center key collision")
	// ErrInvalidWindow is returned for operating windows outside 0 <= start < end <= 24
	// or with weekdays outside 0..6.
	ErrInvalidWindow = errors.New("invalid operating window")
)

// maxForwardSearch bounds the search for the next operating day
const maxForwardSearch = 7

// Registry is the immutable set of call center configurations.
// It is safe for concurrent use.
type Registry struct {
	centers    []types.CallCenterConfig
	byRaw      map[string]int
	byStripped map[string]int
	dids       map[string]int
	loc        *time.Location
}

// New validates the configs and builds a registry evaluating wall-clock hours in loc.
// A nil loc means UTC.
func New(configs []types.CallCenterConfig, loc *time.Location) (*Registry, error) {
	if loc == nil {
		loc = time.UTC
	}

	r := &Registry{
		centers:    make([]types.CallCenterConfig, 0, len(configs)),
		byRaw:      make(map[string]int, len(configs)*2),
		byStripped: make(map[string]int, len(configs)*2),
		dids:       make(map[string]int),
		loc:        loc,
	}

	for _, cfg := range configs {
		if cfg.ID == "" {
			return nil, fmt.Errorf("call center without id (name %q)", cfg.DisplayName)
		}
		if cfg.DisplayName == "" {
			cfg.DisplayName = cfg.ID
		}
		if err := validateWindow(cfg); err != nil {
			return nil, err
		}

		idx := len(r.centers)
		for _, raw := range uniqueKeys(cfg.ID, cfg.DisplayName) {
			if other, ok := r.byRaw[raw]; ok && other != idx {
				return nil, fmt.Errorf("%w: %q used by %s and %s", ErrKeyCollision, raw, r.centers[other].ID, cfg.ID)
			}
			r.byRaw[raw] = idx

			stripped := StripSeparators(raw)
			if other, ok := r.byStripped[stripped]; ok && other != idx {
				return nil, fmt.Errorf("%w: %s and %s both normalize to %q", ErrKeyCollision, r.centers[other].ID, cfg.ID, stripped)
			}
			r.byStripped[stripped] = idx
		}

		for _, did := range cfg.DIDs {
			key := NormalizeDID(did)
			if key == "" {
				continue
			}
			r.dids[key] = idx
		}

		r.centers = append(r.centers, cfg)
	}

	return r, nil
}

func validateWindow(cfg types.CallCenterConfig) error {
	w := cfg.Window
	if w == nil {
		return nil
	}
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: %s has %.2f-%.2f", ErrInvalidWindow, cfg.ID, w.StartHour, w.EndHour)
	}
	for _, d := range w.Days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: %s has weekday %d", ErrInvalidWindow, cfg.ID, d)
		}
	}
	return nil
}

func uniqueKeys(id, name string) []string {
	if id == name {
		return []string{id}
	}
	return []string{id, name}
}

// StripSeparators removes the separator characters used inconsistently in
// call center keys (CC_14 -> CC14).
func StripSeparators(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(key))
}

// NormalizeDID reduces a destination number to its 10-digit national form.
// An 11-digit number with a leading 1 loses the country code.
func NormalizeDID(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

// Location returns the wall-clock location hours are evaluated in
func (r *Registry) Location() *time.Location {
	return r.loc
}

// Centers returns the configured centers in configuration order
func (r *Registry) Centers() []types.CallCenterConfig {
	out := make([]types.CallCenterConfig, len(r.centers))
	copy(out, r.centers)
	return out
}

// Lookup finds a center by raw id or display name first, then by the
// separator-stripped form of either.
func (r *Registry) Lookup(key string) (types.CallCenterConfig, bool) {
	if idx, ok := r.byRaw[key]; ok {
		return r.centers[idx], true
	}
	if idx, ok := r.byStripped[StripSeparators(key)]; ok {
		return r.centers[idx], true
	}
	return types.CallCenterConfig{}, false
}

// DisplayName returns the separator-free display name for a key, or the
// stripped key itself when the center is not configured.
func (r *Registry) DisplayName(key string) string {
	if cfg, ok := r.Lookup(key); ok {
		return StripSeparators(cfg.DisplayName)
	}
	return StripSeparators(key)
}

// IsRecoveryDID reports whether the dialed number is one of the configured
// recovery destination numbers.
func (r *Registry) IsRecoveryDID(number string) bool {
	key := NormalizeDID(number)
	if key == "" {
		return false
	}
	_, ok := r.dids[key]
	return ok
}

// IsAfterHours reports whether t is outside the operating hours of the center.
// Centers without configuration or without a window are always in hours.
// A non-operating weekday is after hours.
func (r *Registry) IsAfterHours(t time.Time, key string) bool {
	cfg, ok := r.Lookup(key)
	if !ok || cfg.Window == nil {
		return false
	}

	local := t.In(r.loc)
	if !cfg.Window.OperatesOn(local.Weekday()) {
		return true
	}

	elapsed := local.Sub(midnight(local))
	return elapsed < offset(cfg.Window.StartHour) || elapsed >= offset(cfg.Window.EndHour)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// offset converts a fractional hour to a duration at minute resolution
func offset(hour float64) time.Duration {
	return time.Duration(math.Round(hour*60)) * time.Minute
}
