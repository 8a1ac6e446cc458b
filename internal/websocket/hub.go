package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dennisdiepolder/monti/recovery/internal/aggregator"
	"github.com/dennisdiepolder/monti/recovery/internal/metrics"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and broadcasts reports to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Reports to fan out
	broadcast chan types.Report

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	// Logger
	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan types.Report, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger.With().Str("component", "hub").Logger(),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWebSocketConnect()
			h.logger.Info().
				Str("client_id", client.id).
				Str("call_center", client.callCenter).
				Int("total_clients", h.ClientCount()).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWebSocketDisconnect()
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case rep := <-h.broadcast:
			h.broadcastFiltered(rep)
		}
	}
}

// BroadcastReport queues a committed report for every connected client
func (h *Hub) BroadcastReport(rep types.Report) {
	h.broadcast <- rep
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastFiltered sends the report to each client narrowed to the client's
// call center. Each distinct filter is marshaled once.
func (h *Hub) broadcastFiltered(rep types.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()

	encoded := make(map[string][]byte)
	for client := range h.clients {
		data, ok := encoded[client.callCenter]
		if !ok {
			var err error
			data, err = EncodeReport(rep, client.callCenter)
			if err != nil {
				h.logger.Error().Err(err).Msg("failed to marshal report")
				metrics.Get().RecordWebSocketError()
				continue
			}
			encoded[client.callCenter] = data
		}

		select {
		case client.send <- data:
			metrics.Get().RecordWebSocketMessage()
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			metrics.Get().RecordWebSocketDisconnect()
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}

// EncodeReport marshals a report narrowed to one call center. An empty
// call center keeps every row.
func EncodeReport(rep types.Report, callCenter string) ([]byte, error) {
	rep.Metrics = aggregator.Filter(rep.Metrics, callCenter)
	return json.Marshal(rep)
}
