// Package classify decides in-hours versus after-hours for normalized
// timestamps, for leads purely by window and for calls by call type.
package classify

import (
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// Classifier is stateless apart from the read-only registry it consults
type Classifier struct {
	registry *hours.Registry
}

// New creates a classifier over the given registry
func New(registry *hours.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Lead classifies a lead timestamp for a call center key
func (c *Classifier) Lead(t time.Time, key string) types.LeadClass {
	if c.registry.IsAfterHours(t, key) {
		return types.LeadAfterHours
	}
	return types.LeadInHours
}

// Call classifies a call timestamp. A recovery contact during hours is a
// recovery, a live call during hours is regular. Off-hours recovery contacts
// are kept apart and never count as callbacks; off-hours live calls are excluded.
func (c *Classifier) Call(t time.Time, key string, isRecovery bool) types.CallClass {
	return callClass(!c.registry.IsAfterHours(t, key), isRecovery)
}

// InWindows classifies against pre-generated windows instead of the
// registry rules, for callers that already hold a center's windows.
func InWindows(ws types.Windows, t time.Time, isRecovery bool) types.CallClass {
	return callClass(hours.InHoursAt(ws, t), isRecovery)
}

func callClass(inHours, isRecovery bool) types.CallClass {
	switch {
	case isRecovery && inHours:
		return types.CallRecovery
	case isRecovery:
		return types.CallRecoveryOffHours
	case inHours:
		return types.CallRegular
	default:
		return types.CallExcluded
	}
}
