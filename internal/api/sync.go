package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/neuanfang/internal/cloudsync"
)

// SyncHandler exposes the synchronization status.
type SyncHandler struct {
	Sync *cloudsync.Facade
}

type syncResponse struct {
	cloudsync.State
	Enabled bool `json:"enabled"`
}

func (h *SyncHandler) state() syncResponse {
	return syncResponse{State: h.Sync.State(), Enabled: h.Sync.Enabled()}
}

// Status handles GET /api/sync.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.state())
}

// Trigger handles POST /api/sync. A failed push is reported in the body;
// local data is unaffected either way.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	err := h.Sync.Refresh(r.Context())
	switch {
	case errors.Is(err, cloudsync.ErrDisabled):
		jsonResponse(w, http.StatusConflict, h.state())
	case err != nil:
		jsonResponse(w, http.StatusBadGateway, h.state())
	default:
		jsonResponse(w, http.StatusOK, h.state())
	}
}
