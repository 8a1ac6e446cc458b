package hours

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	r, err := Load("", time.UTC)
	require.NoError(t, err)

	assert.NotEmpty(t, r.Centers())

	cfg, ok := r.Lookup("CC14")
	require.True(t, ok)
	assert.Equal(t, "CC_14", cfg.ID)

	_, ok = r.Lookup("CC14B")
	require.True(t, ok)

	assert.Equal(t, NotConfigured, r.FormatWindow("CX"))
	assert.Equal(t, "8:30am-4pm PST (Mon-Fri)", r.FormatWindow("CC18A"))
	assert.Equal(t, "8am-9pm PST (Mon-Sat)", r.FormatWindow("CC1"))
	assert.True(t, r.IsRecoveryDID("8334411529"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hours.yaml")
	data := `
callCenters:
  - id: North
    window:
      startHour: 9
      endHour: 17.5
      timezone: EST
      days: [1, 3, 5]
  - id: South
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	r, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, r.Centers(), 2)
	assert.Equal(t, "9am-5:30pm EST (Mon,Wed,Fri)", r.FormatWindow("North"))
	assert.Equal(t, NotConfigured, r.FormatWindow("South"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = Parse([]byte("callCenters: [: bad"), nil)
	assert.Error(t, err)

	_, err = Parse([]byte("callCenters:\n  - id: A_1\n  - id: A1\n"), nil)
	assert.ErrorIs(t, err, ErrKeyCollision)
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		offset  int
		wantErr bool
	}{
		{"-08:00", -8 * 3600, false},
		{"+05:30", 5*3600 + 30*60, false},
		{"", 0, false},
		{"Z", 0, false},
		{"-8", 0, true},
		{"+25:00", 0, true},
		{"08:00x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseOffset(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, off := time.Date(2024, 7, 1, 12, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.offset, off)
		})
	}
}

func TestFormatOperatingWindow(t *testing.T) {
	tests := []struct {
		name string
		r    func() string
		want string
	}{
		{"every day", func() string {
			return formatDays([]time.Weekday{0, 1, 2, 3, 4, 5, 6})
		}, "Every day"},
		{"mon-sat", func() string { return formatDays([]time.Weekday{1, 2, 3, 4, 5, 6}) }, "Mon-Sat"},
		{"single day", func() string { return formatDays([]time.Weekday{2}) }, "Tue"},
		{"weekend list", func() string { return formatDays([]time.Weekday{6, 0}) }, "Sun,Sat"},
		{"midnight", func() string { return formatHour(0) }, "12am"},
		{"noon", func() string { return formatHour(12) }, "12pm"},
		{"end of day", func() string { return formatHour(24) }, "12am"},
		{"half past", func() string { return formatHour(9.5) }, "9:30am"},
		{"evening", func() string { return formatHour(17.5) }, "5:30pm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r())
		})
	}
}
