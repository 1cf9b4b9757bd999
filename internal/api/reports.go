package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/neuanfang/internal/export"
	"github.com/erazemk/neuanfang/internal/stats"
	"github.com/erazemk/neuanfang/internal/store"
)

// ReportsHandler serves statistics and exports of the whole tree.
type ReportsHandler struct {
	Store *store.Store
}

type statsResponse struct {
	stats.RoomStats
	TotalValue decimal.Decimal `json:"total_value"`
}

// Stats handles GET /api/stats.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Store.LoadTree(r.Context())
	if err != nil {
		writeError(w, err, "failed to load rooms")
		return
	}
	jsonResponse(w, http.StatusOK, statsResponse{
		RoomStats:  stats.ComputeRoomStats(rooms),
		TotalValue: stats.TotalValue(rooms),
	})
}

// Export returns a handler for GET /api/export.csv and /api/export.xlsx.
func (h *ReportsHandler) Export(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := h.Store.LoadTree(r.Context())
		if err != nil {
			writeError(w, err, "failed to load rooms")
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, rooms); err != nil {
			writeError(w, err, "failed to export")
			return
		}

		name := fmt.Sprintf("umzug-%s.%s", time.Now().Format("2006-01-02"), format)
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Write(buf.Bytes())
	}
}

// Summary handles GET /api/export/summary.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Store.LoadTree(r.Context())
	if err != nil {
		writeError(w, err, "failed to load rooms")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.Summary(rooms)))
}
