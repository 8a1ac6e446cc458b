package seed

import (
	"context"
	"fmt"

	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// Summary reports what a seed run wrote
type Summary struct {
	Range string `json:"range"`
	Leads int    `json:"leads"`
	Calls int    `json:"calls"`
	Reset bool   `json:"reset"`
}

// Seeder writes generated records into a store
type Seeder struct {
	writer    storage.Writer
	generator *Generator
	logger    zerolog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(writer storage.Writer, generator *Generator, logger zerolog.Logger) *Seeder {
	return &Seeder{
		writer:    writer,
		generator: generator,
		logger:    logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed generates records for rng and saves them, truncating the store first
// when reset is set
func (s *Seeder) Seed(ctx context.Context, rng types.DayRange, reset bool) (Summary, error) {
	if reset {
		if err := s.writer.TruncateAll(ctx); err != nil {
			return Summary{}, fmt.Errorf("truncate: %w", err)
		}
		s.logger.Info().Msg("store truncated")
	}

	leads, calls := s.generator.Generate(rng)
	if err := s.writer.SaveLeads(ctx, leads); err != nil {
		return Summary{}, fmt.Errorf("save leads: %w", err)
	}
	if err := s.writer.SaveCalls(ctx, calls); err != nil {
		return Summary{}, fmt.Errorf("save calls: %w", err)
	}

	sum := Summary{Range: rng.String(), Leads: len(leads), Calls: len(calls), Reset: reset}
	s.logger.Info().
		Str("range", sum.Range).
		Int("leads", sum.Leads).
		Int("calls", sum.Calls).
		Msg("seed data written")
	return sum, nil
}
