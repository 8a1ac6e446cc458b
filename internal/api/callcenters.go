package api

import (
	"net/http"

	"github.com/dennisdiepolder/monti/recovery/internal/hours"
)

// CallCenterInfo is one entry of the registry listing
type CallCenterInfo struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	OperatingHours string   `json:"operatingHours"`
	HoursEnabled   bool     `json:"hoursEnabled"`
	DIDs           []string `json:"dids,omitempty"`
}

// CallCentersHandler lists the configured call centers
type CallCentersHandler struct {
	registry *hours.Registry
}

// NewCallCentersHandler creates a new CallCentersHandler
func NewCallCentersHandler(registry *hours.Registry) *CallCentersHandler {
	return &CallCentersHandler{registry: registry}
}

// List returns every configured center with its formatted hours
// GET /api/call-centers
func (h *CallCentersHandler) List(w http.ResponseWriter, r *http.Request) {
	centers := h.registry.Centers()
	out := make([]CallCenterInfo, 0, len(centers))
	for _, cc := range centers {
		out = append(out, CallCenterInfo{
			ID:             cc.ID,
			Name:           h.registry.DisplayName(cc.ID),
			OperatingHours: h.registry.FormatWindow(cc.ID),
			HoursEnabled:   cc.HasHours(),
			DIDs:           cc.DIDs,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
