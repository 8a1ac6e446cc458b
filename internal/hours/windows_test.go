package hours

import (
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countContaining(ws []types.Window, t time.Time) int {
	n := 0
	for _, w := range ws {
		if w.Contains(t) {
			n++
		}
	}
	return n
}

func TestDailyWindowsOperatingDay(t *testing.T) {
	r := testRegistry(t)

	// Tuesday only
	ws := r.DailyWindows("CC1", at("2024-01-02 00:00"), at("2024-01-02 23:59"))

	require.Len(t, ws.InHours, 1)
	assert.Equal(t, at("2024-01-02 08:00"), ws.InHours[0].Start)
	assert.Equal(t, at("2024-01-02 17:00"), ws.InHours[0].End)

	require.Len(t, ws.AfterHours, 2)
	assert.Equal(t, types.Window{Start: at("2024-01-02 00:00"), End: at("2024-01-02 08:00")}, ws.AfterHours[0])
	assert.Equal(t, types.Window{Start: at("2024-01-02 17:00"), End: at("2024-01-03 08:00")}, ws.AfterHours[1])
	assert.False(t, ws.Truncated)
}

func TestDailyWindowsWeekendBridge(t *testing.T) {
	r := testRegistry(t)

	// Friday through Monday
	ws := r.DailyWindows("CC1", at("2024-01-05 00:00"), at("2024-01-08 23:59"))

	require.Len(t, ws.InHours, 2)
	// Friday close runs to Monday open; Saturday and Sunday add nothing.
	assert.Contains(t, ws.AfterHours, types.Window{Start: at("2024-01-05 17:00"), End: at("2024-01-08 08:00")})
	for _, w := range ws.AfterHours {
		assert.NotEqual(t, at("2024-01-06 00:00"), w.Start)
		assert.NotEqual(t, at("2024-01-07 00:00"), w.Start)
	}
}

func TestDailyWindowsStartsOnNonOperatingDay(t *testing.T) {
	r := testRegistry(t)

	ws := r.DailyWindows("CC1", at("2024-01-06 00:00"), at("2024-01-07 23:59"))

	assert.Empty(t, ws.InHours)
	require.Len(t, ws.AfterHours, 1)
	assert.Equal(t, types.Window{Start: at("2024-01-06 00:00"), End: at("2024-01-08 08:00")}, ws.AfterHours[0])
}

func TestDailyWindowsCoverage(t *testing.T) {
	r := testRegistry(t)
	start := at("2024-01-01 00:00")
	end := at("2024-01-14 23:59")

	for _, key := range []string{"CC1", "CC_14", "CC14B", "CC3"} {
		t.Run(key, func(t *testing.T) {
			ws := r.DailyWindows(key, start, end)
			require.False(t, ws.Truncated)

			for ts := start; ts.Before(end); ts = ts.Add(10 * time.Minute) {
				in := countContaining(ws.InHours, ts)
				after := countContaining(ws.AfterHours, ts)
				require.Equal(t, 1, in+after, "coverage at %s", ts)
				assert.Equal(t, in == 1, InHoursAt(ws, ts))
				assert.Equal(t, after == 1, r.IsAfterHours(ts, key), "classification at %s", ts)
			}
		})
	}
}

func TestDailyWindowsTruncated(t *testing.T) {
	r, err := New([]types.CallCenterConfig{
		{ID: "closed", Window: &types.OperatingWindow{StartHour: 8, EndHour: 17}},
	}, nil)
	require.NoError(t, err)

	ws := r.DailyWindows("closed", at("2024-01-01 00:00"), at("2024-01-03 23:59"))
	assert.True(t, ws.Truncated)
	assert.Empty(t, ws.InHours)
	assert.Empty(t, ws.AfterHours)
}

func TestDailyWindowsUnconfigured(t *testing.T) {
	r := testRegistry(t)

	ws := r.DailyWindows("CC3", at("2024-01-01 00:00"), at("2024-01-03 23:59"))
	assert.Len(t, ws.InHours, 3)
	assert.Empty(t, ws.AfterHours)
	assert.True(t, InHoursAt(ws, at("2024-01-02 03:00")))
}
