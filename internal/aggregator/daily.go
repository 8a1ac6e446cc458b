package aggregator

import (
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// Daily breaks leads and calls down by wall-clock day in loc. Every day of
// rng gets an entry, including days without records.
func Daily(leads []types.NormalizedLead, calls []types.NormalizedCall, rng types.DayRange, loc *time.Location) []types.DailyStats {
	if loc == nil {
		loc = time.UTC
	}

	first := wallDay(rng.Start, loc)
	last := wallDay(rng.End, loc)

	var days []types.DailyStats
	index := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(types.DateLayout)
		index[date] = len(days)
		days = append(days, types.DailyStats{
			Date:        date,
			Weekday:     d.Weekday().String(),
			CallCenters: make(map[string]types.DayCounts),
		})
	}

	bump := func(ts time.Time, center string, fn func(*types.DayCounts)) {
		i, ok := index[ts.In(loc).Format(types.DateLayout)]
		if !ok {
			return
		}
		fn(&days[i].Totals)
		c := days[i].CallCenters[center]
		fn(&c)
		days[i].CallCenters[center] = c
	}

	for _, l := range leads {
		after := l.AfterHours()
		bump(l.Timestamp, l.CallCenter, func(dc *types.DayCounts) {
			dc.Leads++
			if after {
				dc.AfterHoursLeads++
			} else {
				dc.InHoursLeads++
			}
		})
	}

	for _, c := range calls {
		class := c.Class
		bump(c.Timestamp, c.CallCenter, func(dc *types.DayCounts) {
			dc.Calls++
			switch class {
			case types.CallRegular:
				dc.RegularCalls++
			case types.CallRecovery:
				dc.RecoveryCalls++
			}
		})
	}

	return days
}

func wallDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}
