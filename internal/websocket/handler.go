package websocket

import (
	"net/http"

	"github.com/dennisdiepolder/monti/recovery/internal/cache"
	"github.com/dennisdiepolder/monti/recovery/internal/config"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler handles WebSocket upgrade requests
type Handler struct {
	hub      *Hub
	reports  *cache.ReportCache
	config   *config.Config
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. New clients receive the latest
// committed report straight away when one exists.
func NewHandler(hub *Hub, reports *cache.ReportCache, cfg *config.Config, logger zerolog.Logger) *Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:     hub,
		reports: reports,
		config:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		logger: logger.With().Str("component", "websocket").Logger(),
	}
}

// ServeHTTP handles WebSocket upgrade requests. The optional callCenter
// query parameter narrows every report the client receives.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	callCenter := r.URL.Query().Get("callCenter")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := NewClient(h.hub, conn, h.config, callCenter, h.logger)

	if rep, ok := h.reports.Latest(); ok {
		data, err := EncodeReport(rep, callCenter)
		if err == nil {
			client.send <- data
		}
	}

	h.hub.register <- client
	client.Start()
}
