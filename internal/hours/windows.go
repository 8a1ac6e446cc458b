package hours

import (
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// DailyWindows generates the in-hours and after-hours windows of a center for
// every wall-clock day touched by [start, end].
//
// An operating day yields [open, close) in hours and [close, next open) after
// hours. A non-operating day yields [midnight, next open) unless an earlier
// after-hours window already covers it, and the first day's pre-open gap is
// emitted so the windows tile the range without gaps or overlaps. When no
// operating day is found within 7 days the after-hours window is omitted and
// Truncated is set.
//
// Centers without hours get one in-hours window per whole day.
func (r *Registry) DailyWindows(key string, start, end time.Time) types.Windows {
	var out types.Windows
	first := midnight(start.In(r.loc))
	last := midnight(end.In(r.loc))

	cfg, ok := r.Lookup(key)
	if !ok || cfg.Window == nil {
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			out.InHours = append(out.InHours, types.Window{Start: day, End: day.AddDate(0, 0, 1)})
		}
		return out
	}

	w := *cfg.Window
	var coveredUntil time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !w.OperatesOn(day.Weekday()) {
			if day.Before(coveredUntil) {
				continue
			}
			next, found := nextOpen(day, w)
			if !found {
				out.Truncated = true
				continue
			}
			out.AfterHours = append(out.AfterHours, types.Window{Start: day, End: next})
			coveredUntil = next
			continue
		}

		open := day.Add(offset(w.StartHour))
		closing := day.Add(offset(w.EndHour))
		if !day.Before(coveredUntil) && open.After(day) {
			out.AfterHours = append(out.AfterHours, types.Window{Start: day, End: open})
		}
		out.InHours = append(out.InHours, types.Window{Start: open, End: closing})
		coveredUntil = closing

		next, found := nextOpen(day, w)
		if !found {
			out.Truncated = true
			continue
		}
		if next.After(closing) {
			out.AfterHours = append(out.AfterHours, types.Window{Start: closing, End: next})
			coveredUntil = next
		}
	}

	return out
}

// nextOpen finds the opening time of the first operating day after day,
// searching at most maxForwardSearch days ahead.
func nextOpen(day time.Time, w types.OperatingWindow) (time.Time, bool) {
	for i := 1; i <= maxForwardSearch; i++ {
		d := day.AddDate(0, 0, i)
		if w.OperatesOn(d.Weekday()) {
			return d.Add(offset(w.StartHour)), true
		}
	}
	return time.Time{}, false
}

// InHoursAt reports whether t falls in one of the in-hours windows
func InHoursAt(ws types.Windows, t time.Time) bool {
	for _, w := range ws.InHours {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
