package hours

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// NotConfigured is shown for centers without operating hours
const NotConfigured = "No hours configured"

var dayAbbrev = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FormatWindow renders the operating hours of a center, e.g. "8:30am-4pm PST (Mon-Fri)"
func (r *Registry) FormatWindow(key string) string {
	cfg, ok := r.Lookup(key)
	if !ok || cfg.Window == nil {
		return NotConfigured
	}
	return FormatOperatingWindow(*cfg.Window)
}

// FormatOperatingWindow renders a window without registry lookup
func FormatOperatingWindow(w types.OperatingWindow) string {
	var b strings.Builder
	b.WriteString(formatHour(w.StartHour))
	b.WriteString("-")
	b.WriteString(formatHour(w.EndHour))
	if w.TimezoneLabel != "" {
		b.WriteString(" ")
		b.WriteString(w.TimezoneLabel)
	}
	b.WriteString(" (")
	b.WriteString(formatDays(w.Days))
	b.WriteString(")")
	return b.String()
}

func formatHour(hour float64) string {
	total := int(math.Round(hour * 60))
	h, m := total/60, total%60

	period := "am"
	if h >= 12 && h < 24 {
		period = "pm"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}

	if m > 0 {
		return fmt.Sprintf("%d:%02d%s", display, m, period)
	}
	return fmt.Sprintf("%d%s", display, period)
}

func formatDays(days []time.Weekday) string {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	switch len(set) {
	case 0:
		return "No operating days"
	case 7:
		return "Every day"
	}

	sorted := make([]int, 0, len(set))
	for d := range set {
		sorted = append(sorted, int(d))
	}
	sort.Ints(sorted)

	// Contiguous runs are shown as ranges (Mon-Fri), anything else as a list.
	contiguous := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			contiguous = false
			break
		}
	}
	if contiguous && len(sorted) > 1 {
		return dayAbbrev[sorted[0]] + "-" + dayAbbrev[sorted[len(sorted)-1]]
	}

	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = dayAbbrev[d]
	}
	return strings.Join(names, ",")
}
