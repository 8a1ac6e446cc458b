package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dennisdiepolder/monti/recovery/internal/normalize"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// Fixture is the JSON layout read by LoadFixture
type Fixture struct {
	Leads []types.RawLead `json:"leads"`
	Calls []types.RawCall `json:"calls"`
}

// MemoryStore keeps records in memory and serves them in pages, the same
// way the DynamoDB store does. Used when DynamoDB is disabled and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	leads    []types.RawLead
	calls    []types.RawCall
	pageSize int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(pageSize int) *MemoryStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MemoryStore{pageSize: pageSize}
}

// LoadFixture appends the records of a JSON fixture file
func (s *MemoryStore) LoadFixture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}
	ctx := context.Background()
	if err := s.SaveLeads(ctx, f.Leads); err != nil {
		return err
	}
	return s.SaveCalls(ctx, f.Calls)
}

// FetchLeads returns every lead whose partition falls in the range
func (s *MemoryStore) FetchLeads(ctx context.Context, rng types.DayRange) ([]types.RawLead, error) {
	s.mu.RLock()
	selected := selectByDate(s.leads, rng, func(l types.RawLead) (string, []string) {
		return l.DateKey, []string{l.Timestampz, l.CreatedAt}
	})
	s.mu.RUnlock()
	return DrainPages(ctx, CollectionLeads, s.pageSize, slicePages(selected))
}

// FetchCalls returns every call whose partition falls in the range
func (s *MemoryStore) FetchCalls(ctx context.Context, rng types.DayRange) ([]types.RawCall, error) {
	s.mu.RLock()
	selected := selectByDate(s.calls, rng, func(c types.RawCall) (string, []string) {
		return c.DateKey, []string{c.CallDate, c.CreatedAt}
	})
	s.mu.RUnlock()
	return DrainPages(ctx, CollectionCalls, s.pageSize, slicePages(selected))
}

func (s *MemoryStore) SaveLeads(_ context.Context, leads []types.RawLead) error {
	s.mu.Lock()
	s.leads = append(s.leads, leads...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SaveCalls(_ context.Context, calls []types.RawCall) error {
	s.mu.Lock()
	s.calls = append(s.calls, calls...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) TruncateAll(_ context.Context) error {
	s.mu.Lock()
	s.leads = nil
	s.calls = nil
	s.mu.Unlock()
	return nil
}

// selectByDate keeps records whose date key is in the range. A record
// without a date key is placed by its first parsable timestamp; one with no
// usable timestamp is kept so normalization counts the drop.
func selectByDate[T any](records []T, rng types.DayRange, partition func(T) (string, []string)) []T {
	keys := make(map[string]bool)
	for _, k := range rng.DateKeys() {
		keys[k] = true
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		k, stamps := partition(r)
		if k != "" {
			if keys[k] {
				out = append(out, r)
			}
			continue
		}
		if inRange(rng, stamps) {
			out = append(out, r)
		}
	}
	return out
}

func inRange(rng types.DayRange, stamps []string) bool {
	for _, s := range stamps {
		if ts, ok := normalize.ParseTimestamp(s); ok {
			return rng.Contains(ts)
		}
	}
	return true
}

func slicePages[T any](records []T) PageFunc[T] {
	return func(_ context.Context, page, size int) ([]T, error) {
		start := page * size
		if start >= len(records) {
			return nil, nil
		}
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		return records[start:end], nil
	}
}
