package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps an error to the HTTP status reported to the caller
func statusFor(err error) int {
	var fetchErr *storage.SourceFetchError
	switch {
	case errors.Is(err, types.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseRange reads from and to (YYYY-MM-DD). When both are missing the
// trailing days ending today (UTC) are used.
func parseRange(r *http.Request, now time.Time, days int) (types.DayRange, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		today := now.UTC()
		return types.NewDayRange(today.AddDate(0, 0, -(days-1)), today)
	}
	if from == "" || to == "" {
		return types.DayRange{}, types.ErrInvalidRange
	}
	return types.ParseDayRange(from, to)
}
