// Package aggregator turns matched leads and normalized calls into per call
// center and overall call-rate and recovery-rate metrics.
package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/alerts"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/matching"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// Options selects the aggregation policy
type Options struct {
	Recovery RecoveryStrategy
	// CapCallRate caps the in-hours call rate at 100.
	CapCallRate bool
}

// DefaultOptions is matched recovery counting with a capped call rate
func DefaultOptions() Options {
	return Options{Recovery: MatchedRecovery{}, CapCallRate: true}
}

// Describe names the policy for reports
func (o Options) Describe() string {
	capped := "uncapped"
	if o.CapCallRate {
		capped = "capped"
	}
	return fmt.Sprintf("recovery=%s,call_rate=%s", o.Recovery.Name(), capped)
}

// Aggregator computes metrics. It holds no per-run state.
type Aggregator struct {
	registry *hours.Registry
	opts     Options
	logger   zerolog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(registry *hours.Registry, opts Options, logger zerolog.Logger) *Aggregator {
	if opts.Recovery == nil {
		opts.Recovery = MatchedRecovery{}
	}
	return &Aggregator{
		registry: registry,
		opts:     opts,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// Options returns the policy in effect
func (a *Aggregator) Options() Options {
	return a.opts
}

// Aggregate computes the metrics of every observed call center over rng.
// A center is observed when it has at least one lead or one call.
func (a *Aggregator) Aggregate(matches *matching.Matches, calls []types.NormalizedCall, rng types.DayRange) types.AggregatedMetrics {
	byCenter := matches.ByCallCenter()
	callsByCenter := make(map[string][]types.NormalizedCall)
	for _, c := range calls {
		callsByCenter[c.CallCenter] = append(callsByCenter[c.CallCenter], c)
	}

	keys := make([]string, 0, len(byCenter)+len(callsByCenter))
	for k := range byCenter {
		keys = append(keys, k)
	}
	for k := range callsByCenter {
		if _, ok := byCenter[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := types.AggregatedMetrics{
		Range:        rng,
		Policy:       a.opts.Describe(),
		ByCallCenter: make([]types.CallCenterMetrics, 0, len(keys)),
		GeneratedAt:  time.Now().UTC(),
	}

	for _, key := range keys {
		ws := a.registry.DailyWindows(key, rng.Start, rng.End)
		if ws.Truncated {
			out.Diagnostics.TruncatedWins = append(out.Diagnostics.TruncatedWins, key)
			a.logger.Warn().Str("call_center", key).Msg("no operating day within 7 days, after-hours windows omitted")
		}

		row := a.centerMetrics(CenterInput{
			Key:     key,
			Matches: byCenter[key],
			Calls:   callsByCenter[key],
			Windows: ws,
		})
		out.ByCallCenter = append(out.ByCallCenter, row)
	}

	SortCallCenters(out.ByCallCenter)
	sumTotals(&out)

	a.logger.Debug().
		Int("call_centers", len(out.ByCallCenter)).
		Int("leads", out.TotalLeads).
		Int("calls", out.TotalCalls).
		Int("callbacks", out.TotalCallbacks).
		Msg("metrics aggregated")

	return out
}

func (a *Aggregator) centerMetrics(in CenterInput) types.CallCenterMetrics {
	row := types.CallCenterMetrics{
		Key:            in.Key,
		CallCenter:     a.registry.DisplayName(in.Key),
		OperatingHours: a.registry.FormatWindow(in.Key),
		TotalLeads:     len(in.Matches),
		TotalCalls:     len(in.Calls),
	}

	for _, m := range in.Matches {
		if m.Lead.CorrelationKey == nil && m.Lead.PhoneKey == nil {
			row.LeadsWithoutIdentifier++
		}
		if m.Lead.AfterHours() {
			row.AfterHours.TotalLeads++
			continue
		}
		row.InHours.TotalLeads++
		if m.HasClass(types.CallRegular) {
			row.InHours.UniqueCalls++
		}
	}

	for _, c := range in.Calls {
		switch c.Class {
		case types.CallRegular:
			row.InHours.TotalCalls++
		case types.CallRecovery:
			row.AfterHours.RecoveryCalls++
		}
	}

	uncapped := Rate(row.InHours.UniqueCalls, row.InHours.TotalLeads)
	row.InHours.CallRate = uncapped
	if a.opts.CapCallRate && uncapped > 100 {
		row.InHours.CallRate = 100
	}

	row.AfterHours.Callbacks = a.opts.Recovery.Callbacks(in)
	row.AfterHours.CallbackRate = Rate(row.AfterHours.Callbacks, row.AfterHours.TotalLeads)
	row.TotalCallsMissedAfterHours = Missed(row.AfterHours.TotalLeads, row.AfterHours.Callbacks)

	cfg, configured := a.registry.Lookup(in.Key)
	alerts.CheckCallCenterAlerts(&row, alerts.Input{
		HoursConfigured:  configured && cfg.HasHours(),
		UncappedCallRate: uncapped,
	})

	return row
}

// sumTotals recomputes the overall totals from the per-center rows
func sumTotals(m *types.AggregatedMetrics) {
	m.TotalLeads = 0
	m.TotalCalls = 0
	m.TotalInHoursLeads = 0
	m.TotalAfterHoursLeads = 0
	m.TotalCallbacks = 0
	m.TotalCallsMissedAfterHours = 0
	for _, row := range m.ByCallCenter {
		m.TotalLeads += row.TotalLeads
		m.TotalCalls += row.TotalCalls
		m.TotalInHoursLeads += row.InHours.TotalLeads
		m.TotalAfterHoursLeads += row.AfterHours.TotalLeads
		m.TotalCallbacks += row.AfterHours.Callbacks
		m.TotalCallsMissedAfterHours += row.TotalCallsMissedAfterHours
	}
	m.OverallCallbackRate = Rate(m.TotalCallbacks, m.TotalAfterHoursLeads)
}

// Rate returns n / d * 100, or 0 when d is 0
func Rate(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// Missed returns after-hours leads minus callbacks, floored at 0
func Missed(afterHoursLeads, callbacks int) int {
	if callbacks >= afterHoursLeads {
		return 0
	}
	return afterHoursLeads - callbacks
}
