package api

import (
	"net/http"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/aggregator"
	"github.com/dennisdiepolder/monti/recovery/internal/report"
	"github.com/rs/zerolog"
)

// MetricsHandler serves on-demand metric computations. Results are committed
// to the report cache but never broadcast; live pushes come from the refresher.
type MetricsHandler struct {
	runner      *report.Runner
	defaultDays int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(runner *report.Runner, defaultDays int, logger zerolog.Logger) *MetricsHandler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &MetricsHandler{
		runner:      runner,
		defaultDays: defaultDays,
		now:         time.Now,
		logger:      logger.With().Str("component", "metrics_handler").Logger(),
	}
}

// GetMetrics computes the report for a range
// GET /api/metrics?from=YYYY-MM-DD&to=YYYY-MM-DD&callCenter=CC1
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, h.now(), h.defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.runner.Run(r.Context(), rng)
	if err != nil {
		h.logger.Error().Err(err).Str("range", rng.String()).Msg("failed to compute metrics")
		writeError(w, statusFor(err), err.Error())
		return
	}

	rep := res.Report
	rep.Metrics = aggregator.Filter(rep.Metrics, r.URL.Query().Get("callCenter"))
	writeJSON(w, http.StatusOK, rep)
}

// GetDaily returns the per-day breakdown of a range
// GET /api/metrics/daily?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *MetricsHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, h.now(), h.defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.runner.Daily(r.Context(), rng)
	if err != nil {
		h.logger.Error().Err(err).Str("range", rng.String()).Msg("failed to compute daily breakdown")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, days)
}

// GetLatest returns the most recently committed report
// GET /api/metrics/latest?callCenter=CC1
func (h *MetricsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.runner.Cache().Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no report computed yet")
		return
	}
	rep.Metrics = aggregator.Filter(rep.Metrics, r.URL.Query().Get("callCenter"))
	writeJSON(w, http.StatusOK, rep)
}

// ExportCSV computes the report for a range and returns it as CSV
// GET /api/metrics/export?from=YYYY-MM-DD&to=YYYY-MM-DD&callCenter=CC1
func (h *MetricsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, h.now(), h.defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.runner.Run(r.Context(), rng)
	if err != nil {
		h.logger.Error().Err(err).Str("range", rng.String()).Msg("failed to compute metrics for export")
		writeError(w, statusFor(err), err.Error())
		return
	}

	m := aggregator.Filter(res.Report.Metrics, r.URL.Query().Get("callCenter"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="metrics-`+rng.String()+`.csv"`)
	if err := WriteCSV(w, m); err != nil {
		h.logger.Error().Err(err).Msg("failed to write csv")
	}
}
