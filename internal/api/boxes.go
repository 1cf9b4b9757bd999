package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/erazemk/neuanfang/internal/catalog"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/presenter"
	"github.com/erazemk/neuanfang/internal/stats"
	"github.com/erazemk/neuanfang/internal/store"
	"github.com/erazemk/neuanfang/internal/tag"
)

// BoxesHandler serves a box with its items and the box's labels.
type BoxesHandler struct {
	Store   *store.Store
	Catalog *presenter.RoomCatalog
	Tags    *tag.Service
}

type boxDetailResponse struct {
	Box   *model.Box     `json:"box"`
	Items []model.Item   `json:"items"`
	Stats stats.BoxStats `json:"stats"`
}

type nfcRequest struct {
	TagID string `json:"tag_id"`
}

type nfcResponse struct {
	TagID   string `json:"tag_id,omitempty"`
	Payload string `json:"payload"`
}

// detail loads a box into a fresh presenter. It writes the error response
// and returns nil when loading fails.
func (h *BoxesHandler) detail(w http.ResponseWriter, r *http.Request) *presenter.BoxDetail {
	d := presenter.NewBoxDetail(h.Store, h.Catalog)
	if err := d.Load(r.Context(), r.PathValue("id")); err != nil {
		d.Close()
		writeError(w, err, "failed to load box")
		return nil
	}
	return d
}

func writeDetail(w http.ResponseWriter, status int, st presenter.DetailState) {
	items := st.Items
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, status, boxDetailResponse{
		Box:   st.Box,
		Items: items,
		Stats: st.Stats,
	})
}

// snapshot returns the box with items and its room, or nil when the box
// does not exist.
func (h *BoxesHandler) snapshot(ctx context.Context, id string) (*tag.Snapshot, *model.Box, error) {
	box, err := h.Store.GetBoxTree(ctx, id)
	if err != nil || box == nil {
		return nil, nil, err
	}
	room, err := h.Store.GetRoom(ctx, box.RoomID)
	if err != nil {
		return nil, nil, err
	}
	return tag.NewSnapshot(room, box), box, nil
}

// Create handles POST /api/rooms/{id}/boxes.
func (h *BoxesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.BoxInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in = in.Normalize()
	if err := model.ValidateBox(in); err != nil {
		writeError(w, err, "")
		return
	}

	roomID := r.PathValue("id")
	room, err := h.Store.GetRoom(r.Context(), roomID)
	if err != nil {
		writeError(w, err, "failed to create box")
		return
	}
	if room == nil {
		jsonError(w, http.StatusNotFound, "room not found")
		return
	}

	box, err := h.Store.CreateBox(r.Context(), roomID, in)
	if err != nil {
		writeError(w, err, "failed to create box")
		return
	}
	h.Catalog.RoomChanged(r.Context(), roomID)
	jsonResponse(w, http.StatusCreated, box)
}

// Get handles GET /api/boxes/{id}.
func (h *BoxesHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := catalog.ParseItemFilter(q.Get("filter"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	sort, err := catalog.ParseItemSort(q.Get("sort"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := h.detail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	d.SetFilter(filter)
	d.SetSort(sort)
	d.SetSearch(q.Get("q"))
	writeDetail(w, http.StatusOK, d.State())
}

// Update handles PUT /api/boxes/{id}.
func (h *BoxesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.BoxInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in = in.Normalize()
	if err := model.ValidateBox(in); err != nil {
		writeError(w, err, "")
		return
	}

	id := r.PathValue("id")
	box, err := h.Store.GetBox(r.Context(), id)
	if err != nil {
		writeError(w, err, "failed to update box")
		return
	}
	if box == nil {
		jsonError(w, http.StatusNotFound, "box not found")
		return
	}
	if err := h.Store.UpdateBox(r.Context(), id, in); err != nil {
		writeError(w, err, "failed to update box")
		return
	}
	h.Catalog.RoomChanged(r.Context(), box.RoomID)

	d := h.detail(w, r)
	if d == nil {
		return
	}
	defer d.Close()
	writeDetail(w, http.StatusOK, d.State())
}

// TogglePacked handles POST /api/boxes/{id}/packed.
func (h *BoxesHandler) TogglePacked(w http.ResponseWriter, r *http.Request) {
	d := h.detail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	if err := d.TogglePacked(r.Context()); err != nil {
		writeError(w, err, d.State().Message)
		return
	}
	writeDetail(w, http.StatusOK, d.State())
}

// Delete handles DELETE /api/boxes/{id}.
func (h *BoxesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	d := h.detail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	if err := d.DeleteBox(r.Context()); err != nil {
		writeError(w, err, d.State().Message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QRCode handles GET /api/boxes/{id}/qr.png.
func (h *BoxesHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	size := tag.DefaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 2048 {
			jsonError(w, http.StatusBadRequest, "size must be between 64 and 2048")
			return
		}
		size = n
	}

	snap, _, err := h.snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to load box")
		return
	}
	if snap == nil {
		jsonError(w, http.StatusNotFound, "box not found")
		return
	}

	png, err := tag.QRCode(snap, size)
	if err != nil {
		writeError(w, err, "failed to render qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// Share handles GET /api/boxes/{id}/share.
func (h *BoxesHandler) Share(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to load box")
		return
	}
	if snap == nil {
		jsonError(w, http.StatusNotFound, "box not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(snap.ShareText()))
}

// NFCPayload handles GET /api/boxes/{id}/nfc. The payload is what a client
// writes to the physical tag before reporting its id with PUT.
func (h *BoxesHandler) NFCPayload(w http.ResponseWriter, r *http.Request) {
	snap, box, err := h.snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to load box")
		return
	}
	if snap == nil {
		jsonError(w, http.StatusNotFound, "box not found")
		return
	}
	payload, err := snap.Encode()
	if err != nil {
		writeError(w, err, "failed to encode payload")
		return
	}
	jsonResponse(w, http.StatusOK, nfcResponse{TagID: box.NFCTag, Payload: payload})
}

// AssignNFC handles PUT /api/boxes/{id}/nfc.
func (h *BoxesHandler) AssignNFC(w http.ResponseWriter, r *http.Request) {
	var req nfcRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	box, err := h.Store.GetBox(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to load box")
		return
	}
	if box == nil {
		jsonError(w, http.StatusNotFound, "box not found")
		return
	}
	if err := h.Tags.AssignNFC(r.Context(), box, req.TagID); err != nil {
		writeError(w, err, "failed to assign tag")
		return
	}
	jsonResponse(w, http.StatusOK, box)
}

// ClearNFC handles DELETE /api/boxes/{id}/nfc.
func (h *BoxesHandler) ClearNFC(w http.ResponseWriter, r *http.Request) {
	box, err := h.Store.GetBox(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to load box")
		return
	}
	if box == nil {
		jsonError(w, http.StatusNotFound, "box not found")
		return
	}
	if err := h.Tags.ClearNFC(r.Context(), box); err != nil {
		writeError(w, err, "failed to clear tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Scan handles GET /api/scan/{code}.
func (h *BoxesHandler) Scan(w http.ResponseWriter, r *http.Request) {
	box, err := h.Tags.ResolveQR(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err, "failed to resolve code")
		return
	}
	if box == nil {
		jsonError(w, http.StatusNotFound, "unknown code")
		return
	}

	r.SetPathValue("id", box.ID)
	h.Get(w, r)
}
