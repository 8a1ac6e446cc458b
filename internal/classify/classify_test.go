package classify

import (
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T) (*Classifier, *hours.Registry) {
	t.Helper()
	r, err := hours.New([]types.CallCenterConfig{
		{ID: "CC1", Window: &types.OperatingWindow{
			StartHour: 8, EndHour: 17,
			Days: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		}},
		{ID: "CC3"},
	}, time.UTC)
	require.NoError(t, err)
	return New(r), r
}

func TestLead(t *testing.T) {
	c, _ := newClassifier(t)

	tuesday := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, types.LeadInHours, c.Lead(tuesday, "CC1"))
	assert.Equal(t, types.LeadAfterHours, c.Lead(saturday, "CC1"))
	assert.Equal(t, types.LeadInHours, c.Lead(saturday, "CC3"))
}

func TestCall(t *testing.T) {
	c, r := newClassifier(t)

	inHours := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	offHours := time.Date(2024, 1, 2, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ts         time.Time
		key        string
		isRecovery bool
		want       types.CallClass
	}{
		{"recovery during hours", inHours, "CC1", true, types.CallRecovery},
		{"recovery off hours", offHours, "CC1", true, types.CallRecoveryOffHours},
		{"live call during hours", inHours, "CC1", false, types.CallRegular},
		{"live call off hours", offHours, "CC1", false, types.CallExcluded},
		{"unconfigured center is in hours", offHours, "CC3", false, types.CallRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Call(tt.ts, tt.key, tt.isRecovery))

			ws := r.DailyWindows(tt.key, tt.ts.Add(-24*time.Hour), tt.ts.Add(24*time.Hour))
			assert.Equal(t, tt.want, InWindows(ws, tt.ts, tt.isRecovery))
		})
	}
}
