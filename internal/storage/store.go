package storage

import (
	"context"
	"fmt"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

const (
	CollectionLeads = "leads"
	CollectionCalls = "calls"
)

// Store is the read side of the data source. Both reads return the full
// result set for the range, bounds inclusive, in no particular order.
type Store interface {
	FetchLeads(ctx context.Context, rng types.DayRange) ([]types.RawLead, error)
	FetchCalls(ctx context.Context, rng types.DayRange) ([]types.RawCall, error)
}

// Writer populates the data source. Only development tooling writes.
type Writer interface {
	SaveLeads(ctx context.Context, leads []types.RawLead) error
	SaveCalls(ctx context.Context, calls []types.RawCall) error
	TruncateAll(ctx context.Context) error
}

// ReadWriter is a store that can also be seeded
type ReadWriter interface {
	Store
	Writer
}

// SourceFetchError reports a failed page read. The whole fetch is aborted.
type SourceFetchError struct {
	Collection string
	Page       int
	Err        error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch %s page %d: %v", e.Collection, e.Page, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (ReadWriter, error) {
	logger = logger.With().Str("component", "storage").Logger()

	switch cfg.Mode {
	case DynamoModeLocal, DynamoModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	default:
		store := NewMemoryStore(cfg.PageSize)
		if cfg.MemoryFixture != "" {
			if err := store.LoadFixture(cfg.MemoryFixture); err != nil {
				return nil, err
			}
		}
		logger.Info().
			Str("fixture", cfg.MemoryFixture).
			Msg("using in-memory store (DYNAMO_MODE=memory)")
		return store, nil
	}
}
