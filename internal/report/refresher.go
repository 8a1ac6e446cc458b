package report

import (
	"context"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// Broadcaster pushes committed reports to live clients
type Broadcaster interface {
	BroadcastReport(rep types.Report)
}

// Refresher periodically recomputes the trailing range and broadcasts it
type Refresher struct {
	runner   *Runner
	hub      Broadcaster
	interval time.Duration
	days     int
	now      func() time.Time
	logger   zerolog.Logger
}

// NewRefresher creates a refresher for the trailing days ending today (UTC)
func NewRefresher(runner *Runner, hub Broadcaster, interval time.Duration, days int, logger zerolog.Logger) *Refresher {
	if days <= 0 {
		days = 1
	}
	return &Refresher{
		runner:   runner,
		hub:      hub,
		interval: interval,
		days:     days,
		now:      time.Now,
		logger:   logger.With().Str("component", "refresher").Logger(),
	}
}

// Range returns the trailing range refreshed on every tick
func (r *Refresher) Range() types.DayRange {
	today := r.now().UTC()
	rng, _ := types.NewDayRange(today.AddDate(0, 0, -(r.days-1)), today)
	return rng
}

// Refresh runs once and broadcasts the report if it was committed
func (r *Refresher) Refresh(ctx context.Context) error {
	res, err := r.runner.Run(ctx, r.Range())
	if err != nil {
		return err
	}
	if res.Committed && r.hub != nil {
		r.hub.BroadcastReport(res.Report)
	}
	return nil
}

// Start refreshes immediately and then on every interval until ctx is done
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info().Msg("refresher disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().
		Dur("interval", r.interval).
		Int("days", r.days).
		Msg("refresher started")

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresher stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error().Err(err).Msg("refresh failed")
	}
}
