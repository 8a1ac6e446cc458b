package aggregator

import (
	"strings"

	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// Filter narrows a result to one call center and recomputes the totals.
// An empty name or "all" returns the result unchanged. The name is matched
// against the key and display name, ignoring separators and case.
func Filter(m types.AggregatedMetrics, callCenter string) types.AggregatedMetrics {
	want := strings.ToUpper(hours.StripSeparators(callCenter))
	if want == "" || want == "ALL" {
		return m
	}

	out := m
	out.ByCallCenter = make([]types.CallCenterMetrics, 0, 1)
	for _, row := range m.ByCallCenter {
		if strings.ToUpper(hours.StripSeparators(row.Key)) == want ||
			strings.ToUpper(hours.StripSeparators(row.CallCenter)) == want {
			out.ByCallCenter = append(out.ByCallCenter, row)
		}
	}
	sumTotals(&out)
	return out
}
