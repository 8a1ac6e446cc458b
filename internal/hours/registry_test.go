package hours

import (
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New([]types.CallCenterConfig{
		{ID: "CC1", DisplayName: "CC1", DIDs: []string{"18334411529"}, Window: &types.OperatingWindow{StartHour: 8, EndHour: 17, Days: weekdays, TimezoneLabel: "PST"}},
		{ID: "CC_14", DisplayName: "CC_14", Window: &types.OperatingWindow{StartHour: 8.5, EndHour: 16, Days: weekdays, TimezoneLabel: "PST"}},
		{ID: "CC14B", DisplayName: "CC14B", Window: &types.OperatingWindow{StartHour: 9, EndHour: 18, Days: weekdays}},
		{ID: "CC3", DisplayName: "CC3"},
	}, time.UTC)
	require.NoError(t, err)
	return r
}

func at(s string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestIsAfterHours(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name string
		key  string
		ts   string
		want bool
	}{
		// 2024-01-02 is a Tuesday, 2024-01-06 a Saturday
		{"operating tuesday in window", "CC1", "2024-01-02 10:00", false},
		{"saturday is after hours", "CC1", "2024-01-06 10:00", true},
		{"before open", "CC1", "2024-01-02 07:59", true},
		{"at open", "CC1", "2024-01-02 08:00", false},
		{"at close is after hours", "CC1", "2024-01-02 17:00", true},
		{"fractional start before", "CC_14", "2024-01-02 08:29", true},
		{"fractional start at", "CC_14", "2024-01-02 08:30", false},
		{"separator variant resolves", "CC-14", "2024-01-02 08:29", true},
		{"no window always in hours", "CC3", "2024-01-06 03:00", false},
		{"unknown center always in hours", "CC99", "2024-01-06 03:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsAfterHours(at(tt.ts), tt.key))
		})
	}
}

func TestIsAfterHoursUsesWallClockLocation(t *testing.T) {
	loc, err := ParseOffset("-08:00")
	require.NoError(t, err)
	r, err := New([]types.CallCenterConfig{
		{ID: "CC1", Window: &types.OperatingWindow{StartHour: 8, EndHour: 17, Days: weekdays}},
	}, loc)
	require.NoError(t, err)

	// 17:00 UTC is 09:00 at -08:00
	assert.False(t, r.IsAfterHours(at("2024-01-02 17:00"), "CC1"))
	// 03:00 UTC Tuesday is 19:00 Monday at -08:00
	assert.True(t, r.IsAfterHours(at("2024-01-02 03:00"), "CC1"))
}

func TestIsAfterHoursNeverTrueWithoutWindow(t *testing.T) {
	r := testRegistry(t)
	start := at("2024-01-01 00:00")
	for i := 0; i < 14*24*4; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		require.False(t, r.IsAfterHours(ts, "CC3"), ts)
		require.False(t, r.IsAfterHours(ts, "nope"), ts)
	}
}

func TestLookup(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		key    string
		wantID string
		found  bool
	}{
		{"CC1", "CC1", true},
		{"CC_14", "CC_14", true},
		{"CC14", "CC_14", true},
		{"CC 14", "CC_14", true},
		{"CC14B", "CC14B", true},
		{"CC_14B", "CC14B", true},
		{"CC14C", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg, ok := r.Lookup(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, cfg.ID)
		})
	}
}

func TestLookupByDisplayName(t *testing.T) {
	r, err := New([]types.CallCenterConfig{
		{ID: "center-7", DisplayName: "CC7"},
	}, nil)
	require.NoError(t, err)

	cfg, ok := r.Lookup("CC7")
	require.True(t, ok)
	assert.Equal(t, "center-7", cfg.ID)
	assert.Equal(t, "CC7", r.DisplayName("center7"))
	assert.Equal(t, "CC99", r.DisplayName("CC_99"))
}

func TestNewRejectsCollisions(t *testing.T) {
	tests := []struct {
		name    string
		configs []types.CallCenterConfig
	}{
		{
			name:    "stripped ids collide",
			configs: []types.CallCenterConfig{{ID: "CC_14"}, {ID: "CC14"}},
		},
		{
			name:    "duplicate raw id",
			configs: []types.CallCenterConfig{{ID: "CC1"}, {ID: "CC1"}},
		},
		{
			name:    "display name collides with other id",
			configs: []types.CallCenterConfig{{ID: "CC1"}, {ID: "CC2", DisplayName: "CC-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.configs, nil)
			assert.ErrorIs(t, err, ErrKeyCollision)
		})
	}
}

func TestNewKeepsDistinctSubCenters(t *testing.T) {
	r, err := New([]types.CallCenterConfig{{ID: "CC_14"}, {ID: "CC14B"}, {ID: "CC14A"}}, nil)
	require.NoError(t, err)
	assert.Len(t, r.Centers(), 3)
}

func TestNewRejectsInvalidWindows(t *testing.T) {
	tests := []struct {
		name   string
		window types.OperatingWindow
	}{
		{"start after end", types.OperatingWindow{StartHour: 17, EndHour: 8}},
		{"empty window", types.OperatingWindow{StartHour: 8, EndHour: 8}},
		{"end past midnight", types.OperatingWindow{StartHour: 8, EndHour: 25}},
		{"negative start", types.OperatingWindow{StartHour: -1, EndHour: 8}},
		{"bad weekday", types.OperatingWindow{StartHour: 8, EndHour: 17, Days: []time.Weekday{7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.window
			_, err := New([]types.CallCenterConfig{{ID: "CC1", Window: &w}}, nil)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}

	_, err := New([]types.CallCenterConfig{{DisplayName: "nameless"}}, nil)
	assert.Error(t, err)
}

func TestIsRecoveryDID(t *testing.T) {
	r := testRegistry(t)

	assert.True(t, r.IsRecoveryDID("18334411529"))
	assert.True(t, r.IsRecoveryDID("8334411529"))
	assert.True(t, r.IsRecoveryDID("+1 (833) 441-1529"))
	assert.False(t, r.IsRecoveryDID("8334411520"))
	assert.False(t, r.IsRecoveryDID(""))
}

func TestStripSeparators(t *testing.T) {
	assert.Equal(t, "CC14", StripSeparators("CC_14"))
	assert.Equal(t, "CC14B", StripSeparators(" CC-14 B "))
	assert.Equal(t, "CC1", StripSeparators("CC1"))
}
