package report

import (
	"context"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/cache"
	"github.com/dennisdiepolder/monti/recovery/internal/metrics"
	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReportType is the websocket message type of a report
const ReportType = "metrics_report"

// Result is the outcome of one run
type Result struct {
	Report types.Report
	// Committed is false when a newer run for the same range superseded this one.
	Committed bool
}

// Runner fetches a range from the store and computes its report. Failed
// fetches abort the run and are returned unchanged; retrying is up to the caller.
type Runner struct {
	store  storage.Store
	engine *Engine
	cache  *cache.ReportCache
	logger zerolog.Logger
}

// NewRunner creates a new runner
func NewRunner(store storage.Store, engine *Engine, reports *cache.ReportCache, logger zerolog.Logger) *Runner {
	return &Runner{
		store:  store,
		engine: engine,
		cache:  reports,
		logger: logger.With().Str("component", "runner").Logger(),
	}
}

// Engine returns the computation engine
func (r *Runner) Engine() *Engine {
	return r.engine
}

// Cache returns the report cache
func (r *Runner) Cache() *cache.ReportCache {
	return r.cache
}

// Run computes the report for rng and commits it unless superseded
func (r *Runner) Run(ctx context.Context, rng types.DayRange) (Result, error) {
	key := rng.String()
	gen := r.cache.Begin(key)
	runID := uuid.NewString()
	start := time.Now()
	m := metrics.Get()

	logger := r.logger.With().
		Str("run_id", runID).
		Uint64("generation", gen).
		Str("range", key).
		Logger()

	leads, calls, err := r.fetch(ctx, rng)
	if err != nil {
		m.RecordRun("error", time.Since(start))
		logger.Error().Err(err).Msg("fetch failed, run aborted")
		return Result{}, err
	}

	rep := types.Report{
		Type:       ReportType,
		Generation: gen,
		RunID:      runID,
		Metrics:    r.engine.Compute(leads, calls, rng),
	}

	committed := r.cache.Commit(key, gen, rep)
	if committed {
		m.RecordRun("success", time.Since(start))
		m.SetGeneration(gen)
	} else {
		m.RecordRun("stale", time.Since(start))
		m.RecordStaleCommit()
		logger.Info().Msg("superseded by a newer run, report not committed")
	}

	logger.Info().
		Int("leads", len(leads)).
		Int("calls", len(calls)).
		Int("call_centers", len(rep.Metrics.ByCallCenter)).
		Bool("committed", committed).
		Dur("duration", time.Since(start)).
		Msg("run completed")

	return Result{Report: rep, Committed: committed}, nil
}

// Daily fetches rng and returns its per-day breakdown. Nothing is committed.
func (r *Runner) Daily(ctx context.Context, rng types.DayRange) ([]types.DailyStats, error) {
	leads, calls, err := r.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}
	return r.engine.Daily(leads, calls, rng), nil
}

// fetch drains both collections in parallel. Normalization only starts once
// both are complete.
func (r *Runner) fetch(ctx context.Context, rng types.DayRange) ([]types.RawLead, []types.RawCall, error) {
	var leads []types.RawLead
	var calls []types.RawCall

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = r.store.FetchLeads(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		calls, err = r.store.FetchCalls(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return leads, calls, nil
}
