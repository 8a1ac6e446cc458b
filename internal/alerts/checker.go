package alerts

import (
	"fmt"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// Input carries the facts about a center that are not part of its output row
type Input struct {
	HoursConfigured  bool
	UncappedCallRate float64
}

// CheckCallCenterAlerts evaluates data-quality rules for one call center,
// replacing the row's Alerts field.
func CheckCallCenterAlerts(row *types.CallCenterMetrics, in Input) {
	row.Alerts = nil

	if !in.HoursConfigured {
		row.Alerts = append(row.Alerts, types.CenterAlert{
			Rule:     "no_hours",
			Severity: types.SeverityInfo,
			Message:  "No operating hours configured, all leads counted in hours",
		})
	}

	if row.TotalCalls > row.TotalLeads {
		row.Alerts = append(row.Alerts, types.CenterAlert{
			Rule:     "calls_exceed_leads",
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("%d calls for %d leads", row.TotalCalls, row.TotalLeads),
		})
	}

	if in.UncappedCallRate > 100 {
		row.Alerts = append(row.Alerts, types.CenterAlert{
			Rule:     "call_rate_over_100",
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("Uncapped call rate %s", formatRate(in.UncappedCallRate)),
		})
	}

	if row.LeadsWithoutIdentifier > 0 {
		row.Alerts = append(row.Alerts, types.CenterAlert{
			Rule:     "unmatchable_leads",
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("%d leads have no phone or click id", row.LeadsWithoutIdentifier),
		})
	}
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}
