package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/aggregator"
	"github.com/dennisdiepolder/monti/recovery/internal/api"
	"github.com/dennisdiepolder/monti/recovery/internal/cache"
	"github.com/dennisdiepolder/monti/recovery/internal/config"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/normalize"
	"github.com/dennisdiepolder/monti/recovery/internal/report"
	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	// Check status code
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	// Check content type
	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	// Parse response body
	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	// Check response fields
	if response["status"] != "ok" {
		t.Errorf("expected status ok, got %s", response["status"])
	}
	if response["service"] != "recovery-metrics" {
		t.Errorf("expected service recovery-metrics, got %s", response["service"])
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusOK},    // Handler doesn't check method
		{http.MethodPut, http.StatusOK},     // Handler doesn't check method
		{http.MethodDelete, http.StatusOK},  // Handler doesn't check method
		{http.MethodOptions, http.StatusOK}, // Handler doesn't check method
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			healthHandler(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func testRouter(t *testing.T, mode storage.DynamoMode) chi.Router {
	t.Helper()
	registry, err := hours.New(nil, time.UTC)
	require.NoError(t, err)

	store := storage.NewMemoryStore(100)
	engine := report.NewEngine(registry, normalize.DefaultPolicy(), aggregator.DefaultOptions(), zerolog.Nop())
	runner := report.NewRunner(store, engine, cache.NewReportCache(), zerolog.Nop())

	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
	ws := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusSwitchingProtocols) }

	return newRouter(cfg, ws,
		api.NewMetricsHandler(runner, 7, zerolog.Nop()),
		api.NewCallCentersHandler(registry),
		newAdminHandler(mode, store, registry))
}

func TestRouterServesPrometheusMetrics(t *testing.T) {
	r := testRouter(t, storage.DynamoModeMemory)

	// one request so the http counters have a series
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recovery_http_requests_total")
}

func TestRouterAdminRoutesByMode(t *testing.T) {
	tests := []struct {
		mode       storage.DynamoMode
		wantStatus int
	}{
		{storage.DynamoModeMemory, http.StatusOK},
		{storage.DynamoModeLocal, http.StatusOK},
		{storage.DynamoModeAWS, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := testRouter(t, tt.mode)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/wipe", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
