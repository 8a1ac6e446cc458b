package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFetchCallsPaginated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(1000)

	calls := make([]types.RawCall, 1200)
	for i := range calls {
		calls[i] = types.RawCall{DateKey: "2024-01-02", CallID: fmt.Sprintf("call-%d", i)}
	}
	require.NoError(t, s.SaveCalls(ctx, calls))

	rng, err := types.ParseDayRange("2024-01-01", "2024-01-02")
	require.NoError(t, err)

	got, err := s.FetchCalls(ctx, rng)
	require.NoError(t, err)
	assert.Len(t, got, 1200)
}

func TestMemoryStoreFiltersByDateKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	require.NoError(t, s.SaveLeads(ctx, []types.RawLead{
		{DateKey: "2024-01-01", LeadID: "a"},
		{DateKey: "2024-01-03", LeadID: "b"},
		{DateKey: "2024-01-04", LeadID: "c"},
		{LeadID: "no-partition"},
		{LeadID: "stamped-in", Timestampz: "2024-01-02T10:00:00Z"},
		{LeadID: "stamped-out", Timestampz: "2024-03-15T10:00:00Z"},
		{LeadID: "fallback-in", Timestampz: "garbage", CreatedAt: "2024-01-03T23:59:59Z"},
		{LeadID: "fallback-out", CreatedAt: "2024-01-04T00:00:00Z"},
	}))

	rng, err := types.ParseDayRange("2024-01-01", "2024-01-03")
	require.NoError(t, err)

	got, err := s.FetchLeads(ctx, rng)
	require.NoError(t, err)

	var ids []string
	for _, l := range got {
		ids = append(ids, l.LeadID)
	}
	assert.Equal(t, []string{"a", "b", "no-partition", "stamped-in", "fallback-in"}, ids)

	require.NoError(t, s.TruncateAll(ctx))
	got, err = s.FetchLeads(ctx, rng)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreCallsWithoutDateKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	require.NoError(t, s.SaveCalls(ctx, []types.RawCall{
		{CallID: "jan", CallDate: "2024-01-01T08:00:00Z"},
		{CallID: "mar", CallDate: "2024-03-15T10:00:00Z"},
		{CallID: "created", CreatedAt: "2024-01-02 09:00:00"},
	}))

	rng, err := types.ParseDayRange("2024-01-01", "2024-01-02")
	require.NoError(t, err)

	got, err := s.FetchCalls(ctx, rng)
	require.NoError(t, err)

	var ids []string
	for _, c := range got {
		ids = append(ids, c.CallID)
	}
	assert.Equal(t, []string{"jan", "created"}, ids)
}

func TestNewStoreLoadsFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	data, err := json.Marshal(Fixture{
		Leads: []types.RawLead{{DateKey: "2024-01-02", LeadID: "l1", UTMSource: "CC1"}},
		Calls: []types.RawCall{{DateKey: "2024-01-02", CallID: "c1", CallCenter: "CC1"}},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	store, err := NewStore(context.Background(), DynamoConfig{Mode: DynamoModeMemory, MemoryFixture: path}, zerolog.Nop())
	require.NoError(t, err)

	rng, err := types.ParseDayRange("2024-01-02", "2024-01-02")
	require.NoError(t, err)

	leads, err := store.FetchLeads(context.Background(), rng)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "CC1", leads[0].UTMSource)

	calls, err := store.FetchCalls(context.Background(), rng)
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestNewStoreMissingFixture(t *testing.T) {
	_, err := NewStore(context.Background(), DynamoConfig{Mode: DynamoModeMemory, MemoryFixture: "/does/not/exist.json"}, zerolog.Nop())
	assert.Error(t, err)
}
