package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("call_center,total_leads\n"))
	})

	// request ids are assigned by chi before the logger runs
	h := chimiddleware.RequestID(Logger(zerolog.New(&buf))(handler))

	req := httptest.NewRequest(http.MethodGet, "/api/metrics/export?startDate=2024-01-01&endDate=2024-01-07", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	entry := logEntry(t, &buf)
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/metrics/export", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(len("call_center,total_leads\n")), entry["bytes"])
	assert.NotEmpty(t, entry["request_id"])
	assert.Contains(t, entry, "duration")
	assert.Equal(t, "request completed", entry["message"])
}

func TestLoggerRecordsUpstreamFailure(t *testing.T) {
	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	Logger(zerolog.New(&buf))(handler).ServeHTTP(httptest.NewRecorder(), req)

	entry := logEntry(t, &buf)
	assert.Equal(t, float64(502), entry["status"])
	assert.Equal(t, float64(0), entry["bytes"])
	assert.Equal(t, "", entry["request_id"])
}
