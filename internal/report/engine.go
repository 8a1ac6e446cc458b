// Package report is the computation entry point: it drains the data source,
// normalizes, matches and aggregates, and guards the shared report state.
package report

import (
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/aggregator"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/matching"
	"github.com/dennisdiepolder/monti/recovery/internal/normalize"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// Engine is the pure computation over already fetched raw records
type Engine struct {
	registry   *hours.Registry
	normalizer *normalize.Normalizer
	aggregator *aggregator.Aggregator
}

// NewEngine creates an engine for the given registry and policies
func NewEngine(registry *hours.Registry, policy normalize.Policy, opts aggregator.Options, logger zerolog.Logger) *Engine {
	return &Engine{
		registry:   registry,
		normalizer: normalize.New(registry, policy, logger),
		aggregator: aggregator.NewAggregator(registry, opts, logger),
	}
}

// Registry returns the registry the engine classifies against
func (e *Engine) Registry() *hours.Registry {
	return e.registry
}

// Policy names every rule in effect
func (e *Engine) Policy() string {
	p := e.normalizer.Policy()
	detect := "keyword"
	if p.MatchDID {
		detect = "keyword+did"
	}
	exclusion := "kept"
	if p.ExcludeOffHoursCalls {
		exclusion = "excluded"
	}
	return "detect=" + detect + ",off_hours_calls=" + exclusion + "," + e.aggregator.Options().Describe()
}

// Compute normalizes, matches and aggregates raw records over rng
func (e *Engine) Compute(leads []types.RawLead, calls []types.RawCall, rng types.DayRange) types.AggregatedMetrics {
	lb := e.normalizer.Leads(leads)
	cb := e.normalizer.Calls(calls)
	return e.aggregate(lb, cb, rng)
}

// ComputeMetrics is Compute over the whole UTC days spanned by the
// records themselves.
func (e *Engine) ComputeMetrics(leads []types.RawLead, calls []types.RawCall) types.AggregatedMetrics {
	lb := e.normalizer.Leads(leads)
	cb := e.normalizer.Calls(calls)
	return e.aggregate(lb, cb, spanOf(lb.Leads, cb.Calls))
}

// Daily normalizes raw records and breaks them down by wall-clock day
func (e *Engine) Daily(leads []types.RawLead, calls []types.RawCall, rng types.DayRange) []types.DailyStats {
	lb := e.normalizer.Leads(leads)
	cb := e.normalizer.Calls(calls)
	return aggregator.Daily(lb.Leads, cb.Calls, rng, e.registry.Location())
}

func (e *Engine) aggregate(lb normalize.LeadBatch, cb normalize.CallBatch, rng types.DayRange) types.AggregatedMetrics {
	out := e.aggregator.Aggregate(matching.Match(lb.Leads, cb.Calls), cb.Calls, rng)
	out.Policy = e.Policy()
	out.Diagnostics.RawLeads = lb.Raw
	out.Diagnostics.RawCalls = cb.Raw
	out.Diagnostics.DroppedLeads = normalize.Counts(lb.Dropped)
	out.Diagnostics.DroppedCalls = normalize.Counts(cb.Dropped)
	return out
}

// spanOf returns the whole UTC days covering every record, or today when
// there are none.
func spanOf(leads []types.NormalizedLead, calls []types.NormalizedCall) types.DayRange {
	var first, last time.Time
	see := func(t time.Time) {
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}
	for _, l := range leads {
		see(l.Timestamp)
	}
	for _, c := range calls {
		see(c.Timestamp)
	}
	if first.IsZero() {
		first = time.Now().UTC()
		last = first
	}
	rng, _ := types.NewDayRange(first, last)
	return rng
}
