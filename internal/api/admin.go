package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/seed"
	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// AdminHandler exposes data management endpoints for local development
type AdminHandler struct {
	store  storage.Writer
	seeder *seed.Seeder
	now    func() time.Time
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(store storage.Writer, seeder *seed.Seeder, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		seeder: seeder,
		now:    time.Now,
		logger: logger.With().Str("component", "admin").Logger(),
	}
}

// Seed writes synthetic records for the trailing days ending today
// POST /api/admin/seed?days=7&reset=true
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 90 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 90")
			return
		}
		days = n
	}
	reset := r.URL.Query().Get("reset") == "true"

	today := h.now().UTC()
	rng, err := types.NewDayRange(today.AddDate(0, 0, -(days-1)), today)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.seeder.Seed(r.Context(), rng, reset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to seed store")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sum)
}

// Wipe truncates every collection
// POST /api/admin/wipe
func (h *AdminHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TruncateAll(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate store")
		writeError(w, http.StatusInternalServerError, "failed to truncate: "+err.Error())
		return
	}

	h.logger.Info().Msg("store truncated")
	writeJSON(w, http.StatusOK, map[string]string{"message": "store truncated"})
}
