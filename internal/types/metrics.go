package types

import "time"

// InHoursMetrics covers leads that arrived during operating hours
type InHoursMetrics struct {
	TotalLeads  int     `json:"totalLeads"`
	TotalCalls  int     `json:"totalCalls"`  // regular calls received during hours
	UniqueCalls int     `json:"uniqueCalls"` // in-hours leads with at least one regular call
	CallRate    float64 `json:"callRate"`    // uniqueCalls / totalLeads * 100
}

// AfterHoursMetrics covers leads that arrived outside operating hours
type AfterHoursMetrics struct {
	TotalLeads    int     `json:"totalLeads"`
	RecoveryCalls int     `json:"recoveryCalls"` // recovery contacts received during hours
	Callbacks     int     `json:"callbacks"`     // recovered after-hours leads
	CallbackRate  float64 `json:"callbackRate"`  // callbacks / totalLeads * 100
}

// AlertSeverity represents the severity of a data-quality alert
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// CenterAlert is a data-quality condition detected for a call center
type CenterAlert struct {
	Rule     string        `json:"rule"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// CallCenterMetrics is the per call center output row
type CallCenterMetrics struct {
	Key                        string            `json:"key"`        // normalized grouping key
	CallCenter                 string            `json:"callCenter"` // display name
	OperatingHours             string            `json:"operatingHours"`
	TotalLeads                 int               `json:"totalLeadsSent"`
	TotalCalls                 int               `json:"totalCalls"`
	InHours                    InHoursMetrics    `json:"inHours"`
	AfterHours                 AfterHoursMetrics `json:"afterHours"`
	TotalCallsMissedAfterHours int               `json:"totalCallsMissedAfterHours"`
	LeadsWithoutIdentifier     int               `json:"leadsWithoutIdentifier,omitempty"`
	Alerts                     []CenterAlert     `json:"alerts,omitempty"`
}

// Diagnostics reports records that did not make it into the computation
type Diagnostics struct {
	RawLeads      int            `json:"rawLeads"`
	RawCalls      int            `json:"rawCalls"`
	DroppedLeads  map[string]int `json:"droppedLeads,omitempty"`
	DroppedCalls  map[string]int `json:"droppedCalls,omitempty"`
	TruncatedWins []string       `json:"truncatedWindows,omitempty"` // centers whose window search hit the 7-day bound
}

// AggregatedMetrics is the result of one metrics computation
type AggregatedMetrics struct {
	Range                      DayRange            `json:"range"`
	Policy                     string              `json:"policy"`
	TotalLeads                 int                 `json:"totalLeads"`
	TotalCalls                 int                 `json:"totalCalls"`
	TotalInHoursLeads          int                 `json:"totalInHoursLeads"`
	TotalAfterHoursLeads       int                 `json:"totalAfterHoursLeads"`
	TotalCallbacks             int                 `json:"totalCallbacks"`
	OverallCallbackRate        float64             `json:"overallCallbackRate"`
	TotalCallsMissedAfterHours int                 `json:"totalCallsMissedAfterHours"`
	Diagnostics                Diagnostics         `json:"diagnostics"`
	ByCallCenter               []CallCenterMetrics `json:"byCallCenter"`
	GeneratedAt                time.Time           `json:"generatedAt"`
}

// DayCounts holds per-day lead and call counts split by hours classification
type DayCounts struct {
	Leads           int `json:"leads"`
	InHoursLeads    int `json:"inHoursLeads"`
	AfterHoursLeads int `json:"afterHoursLeads"`
	Calls           int `json:"calls"`
	RegularCalls    int `json:"regularCalls"`
	RecoveryCalls   int `json:"recoveryCalls"`
}

// DailyStats is one day of the daily breakdown report
type DailyStats struct {
	Date        string               `json:"date"` // wall-clock YYYY-MM-DD
	Weekday     string               `json:"weekday"`
	Totals      DayCounts            `json:"totals"`
	CallCenters map[string]DayCounts `json:"callCenters"`
}

// Report is the payload pushed to websocket clients after a refresh
type Report struct {
	Type       string            `json:"type"` // "metrics_report"
	Generation uint64            `json:"generation"`
	RunID      string            `json:"runId"`
	Metrics    AggregatedMetrics `json:"metrics"`
}
