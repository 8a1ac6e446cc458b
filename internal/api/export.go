package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

var csvHeader = []string{
	"Call Center",
	"Operating Hours",
	"Total Leads Sent",
	"Total Calls",
	"Leads Sent (In-Hours)",
	"Unique Calls (In-Hours)",
	"Call Rate % (In-Hours)",
	"Leads Sent (After-Hours)",
	"Callbacks (After-Hours Recovery)",
	"Callback Rate % (After-Hours)",
	"Calls Missed After Hours",
}

// WriteCSV writes one row per call center followed by a TOTAL row
func WriteCSV(w io.Writer, m types.AggregatedMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, cc := range m.ByCallCenter {
		row := []string{
			cc.CallCenter,
			cc.OperatingHours,
			strconv.Itoa(cc.TotalLeads),
			strconv.Itoa(cc.TotalCalls),
			strconv.Itoa(cc.InHours.TotalLeads),
			strconv.Itoa(cc.InHours.UniqueCalls),
			percent(cc.InHours.CallRate),
			strconv.Itoa(cc.AfterHours.TotalLeads),
			strconv.Itoa(cc.AfterHours.Callbacks),
			percent(cc.AfterHours.CallbackRate),
			strconv.Itoa(cc.TotalCallsMissedAfterHours),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	total := []string{
		"TOTAL",
		"-",
		strconv.Itoa(m.TotalLeads),
		strconv.Itoa(m.TotalCalls),
		strconv.Itoa(m.TotalInHoursLeads),
		"-",
		"-",
		strconv.Itoa(m.TotalAfterHoursLeads),
		strconv.Itoa(m.TotalCallbacks),
		percent(m.OverallCallbackRate),
		strconv.Itoa(m.TotalCallsMissedAfterHours),
	}
	if err := cw.Write(total); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
