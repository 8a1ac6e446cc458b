// Package normalize turns raw lead and call records into their canonical
// shape. All optional-field fallback logic lives here: every raw record either
// becomes a normalized record or is dropped with a reason.
package normalize

import (
	"strings"

	"github.com/dennisdiepolder/monti/recovery/internal/classify"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/metrics"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// DropReason explains why a raw record was excluded
type DropReason string

const (
	DropNoTimestamp  DropReason = "no_timestamp"
	DropNoCallCenter DropReason = "no_call_center"
	DropOffHoursCall DropReason = "off_hours_call"
)

// DefaultKeywords mark a call's publisher label as a recovery contact
var DefaultKeywords = []string{"sms", "text", "txt", "message", "messaging"}

// Policy selects the recovery-contact and exclusion rules
type Policy struct {
	// Keywords are matched case-insensitively as substrings of the label.
	Keywords []string
	// MatchDID also treats calls to a configured recovery DID as recovery contacts.
	MatchDID bool
	// ExcludeOffHoursCalls drops live calls received outside operating hours.
	ExcludeOffHoursCalls bool
}

// DefaultPolicy is keyword detection with strict off-hours exclusion
func DefaultPolicy() Policy {
	return Policy{
		Keywords:             DefaultKeywords,
		ExcludeOffHoursCalls: true,
	}
}

// LeadResult is either a normalized lead or a drop
type LeadResult struct {
	Lead    types.NormalizedLead
	Dropped DropReason
}

// OK reports whether the record survived normalization
func (r LeadResult) OK() bool { return r.Dropped == "" }

// CallResult is either a normalized call or a drop
type CallResult struct {
	Call    types.NormalizedCall
	Dropped DropReason
}

// OK reports whether the record survived normalization
func (r CallResult) OK() bool { return r.Dropped == "" }

// Normalizer converts raw records using the registry for key resolution
// and the classifier for hours classification.
type Normalizer struct {
	registry   *hours.Registry
	classifier *classify.Classifier
	policy     Policy
	keywords   []string
	logger     zerolog.Logger
}

// New creates a normalizer
func New(registry *hours.Registry, policy Policy, logger zerolog.Logger) *Normalizer {
	keywords := make([]string, 0, len(policy.Keywords))
	for _, k := range policy.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Normalizer{
		registry:   registry,
		classifier: classify.New(registry),
		policy:     policy,
		keywords:   keywords,
		logger:     logger.With().Str("component", "normalizer").Logger(),
	}
}

// Policy returns the policy in effect
func (n *Normalizer) Policy() Policy {
	return n.policy
}

// ParseLead normalizes one raw lead
func (n *Normalizer) ParseLead(raw types.RawLead) LeadResult {
	center := strings.TrimSpace(raw.UTMSource)
	if center == "" {
		return LeadResult{Dropped: DropNoCallCenter}
	}
	ts, ok := resolveTimestamp(raw.Timestampz, raw.CreatedAt)
	if !ok {
		return LeadResult{Dropped: DropNoTimestamp}
	}

	return LeadResult{Lead: types.NormalizedLead{
		CallCenter:     n.registry.DisplayName(center),
		RawCallCenter:  center,
		Timestamp:      ts,
		CorrelationKey: firstNonEmpty(raw.CID, raw.ClickID),
		PhoneKey:       firstPhone(raw.PhoneNumberNorm, raw.PhoneNumber),
		Class:          n.classifier.Lead(ts, center),
	}}
}

// ParseCall normalizes one raw call
func (n *Normalizer) ParseCall(raw types.RawCall) CallResult {
	center := strings.TrimSpace(raw.CallCenter)
	if center == "" {
		return CallResult{Dropped: DropNoCallCenter}
	}
	ts, ok := resolveTimestamp(raw.CallDate, raw.CreatedAt)
	if !ok {
		return CallResult{Dropped: DropNoTimestamp}
	}

	recovery := n.IsRecoveryContact(raw)
	class := n.classifier.Call(ts, center, recovery)
	if class == types.CallExcluded && n.policy.ExcludeOffHoursCalls {
		return CallResult{Dropped: DropOffHoursCall}
	}

	return CallResult{Call: types.NormalizedCall{
		CallCenter:        n.registry.DisplayName(center),
		RawCallCenter:     center,
		Timestamp:         ts,
		CorrelationKey:    firstNonEmpty(raw.ClickID),
		PhoneKey:          PhoneKey(raw.CallerPhone),
		IsRecoveryContact: recovery,
		RawLabel:          raw.PublisherName,
		Class:             class,
	}}
}

// IsRecoveryContact reports whether a call is a recovery contact rather
// than a live inbound call.
func (n *Normalizer) IsRecoveryContact(raw types.RawCall) bool {
	label := strings.ToLower(raw.PublisherName)
	for _, k := range n.keywords {
		if strings.Contains(label, k) {
			return true
		}
	}
	return n.policy.MatchDID && n.registry.IsRecoveryDID(raw.CCNumber)
}

// LeadBatch is the outcome of normalizing a set of raw leads
type LeadBatch struct {
	Leads   []types.NormalizedLead
	Dropped map[DropReason]int
	Raw     int
}

// CallBatch is the outcome of normalizing a set of raw calls
type CallBatch struct {
	Calls   []types.NormalizedCall
	Dropped map[DropReason]int
	Raw     int
}

// Leads normalizes all raw leads. len(Leads) plus the drop counts equals Raw.
func (n *Normalizer) Leads(raws []types.RawLead) LeadBatch {
	out := LeadBatch{
		Leads:   make([]types.NormalizedLead, 0, len(raws)),
		Dropped: make(map[DropReason]int),
		Raw:     len(raws),
	}
	for _, raw := range raws {
		res := n.ParseLead(raw)
		if !res.OK() {
			out.Dropped[res.Dropped]++
			continue
		}
		out.Leads = append(out.Leads, res.Lead)
	}
	n.logDrops("leads", out.Raw, len(out.Leads), out.Dropped)
	return out
}

// Calls normalizes all raw calls. len(Calls) plus the drop counts equals Raw.
func (n *Normalizer) Calls(raws []types.RawCall) CallBatch {
	out := CallBatch{
		Calls:   make([]types.NormalizedCall, 0, len(raws)),
		Dropped: make(map[DropReason]int),
		Raw:     len(raws),
	}
	for _, raw := range raws {
		res := n.ParseCall(raw)
		if !res.OK() {
			out.Dropped[res.Dropped]++
			continue
		}
		out.Calls = append(out.Calls, res.Call)
	}
	n.logDrops("calls", out.Raw, len(out.Calls), out.Dropped)
	return out
}

func (n *Normalizer) logDrops(collection string, raw, kept int, dropped map[DropReason]int) {
	m := metrics.Get()
	ev := n.logger.Debug()
	if kept < raw {
		ev = n.logger.Info()
	}
	d := zerolog.Dict()
	for reason, count := range dropped {
		m.RecordDropped(collection, string(reason), count)
		d.Int(string(reason), count)
	}
	ev.Str("collection", collection).
		Int("raw", raw).
		Int("kept", kept).
		Dict("dropped", d).
		Msg("records normalized")
}

// Counts converts drop counts to plain string keys for reporting
func Counts(dropped map[DropReason]int) map[string]int {
	if len(dropped) == 0 {
		return nil
	}
	out := make(map[string]int, len(dropped))
	for reason, count := range dropped {
		out[string(reason)] = count
	}
	return out
}
