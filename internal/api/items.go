package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/neuanfang/internal/imaging"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/presenter"
	"github.com/erazemk/neuanfang/internal/store"
)

// ItemsHandler handles item and photo endpoints. Every write goes through a
// box presenter so the owning room is recomputed.
type ItemsHandler struct {
	Store         *store.Store
	Catalog       *presenter.RoomCatalog
	MaxPhotoBytes int64
}

// itemDetail loads the item named in the path and its box. It writes the
// error response and returns nil when either is missing.
func (h *ItemsHandler) itemDetail(w http.ResponseWriter, r *http.Request) (*presenter.BoxDetail, *model.Item) {
	item, err := store.GetItem(r.Context(), h.Store.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to get item")
		return nil, nil
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil, nil
	}

	d := presenter.NewBoxDetail(h.Store, h.Catalog)
	if err := d.Load(r.Context(), item.BoxID); err != nil {
		d.Close()
		writeError(w, err, "failed to load box")
		return nil, nil
	}
	return d, item
}

// Create handles POST /api/boxes/{id}/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := presenter.NewBoxDetail(h.Store, h.Catalog)
	defer d.Close()
	if err := d.Load(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err, "failed to load box")
		return
	}

	item, err := d.AddItem(r.Context(), in)
	if err != nil {
		writeError(w, err, d.State().Message)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, item := h.itemDetail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	if err := d.UpdateItem(r.Context(), item.ID, in); err != nil {
		writeError(w, err, d.State().Message)
		return
	}

	updated, err := store.GetItem(r.Context(), h.Store.DB, item.ID)
	if err != nil {
		writeError(w, err, "failed to get item")
		return
	}
	if updated == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	d, item := h.itemDetail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	if err := d.DeleteItem(r.Context(), item.ID); err != nil {
		writeError(w, err, d.State().Message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto handles PUT /api/items/{id}/photo. The photo is sent as the
// multipart field "photo" and stored as a downscaled JPEG.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxPhotoBytes+1<<20)

	if err := r.ParseMultipartForm(h.MaxPhotoBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "photo too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, errorResponse{Error: "photo file required", Field: "photo"})
		return
	}
	defer file.Close()

	photo, err := imaging.Normalize(file, h.MaxPhotoBytes)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "photo too large")
		return
	case err != nil:
		slog.Warn("rejected photo", "item", r.PathValue("id"), "error", err)
		jsonResponse(w, http.StatusBadRequest, errorResponse{Error: "photo must be JPEG, PNG, or WebP", Field: "photo"})
		return
	}

	d, item := h.itemDetail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	if err := d.AttachPhoto(r.Context(), item.ID, photo.Data, photo.MIME); err != nil {
		writeError(w, err, d.State().Message)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"mime":   photo.MIME,
		"width":  photo.Width,
		"height": photo.Height,
	})
}

// GetPhoto handles GET /api/items/{id}/photo. size=thumb returns a small
// rendition.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemPhoto(r.Context(), h.Store.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	if r.URL.Query().Get("size") == "thumb" {
		thumb, err := imaging.Thumbnail(data, imaging.ThumbDimension)
		if err != nil {
			writeError(w, err, "failed to render thumbnail")
			return
		}
		data, mime = thumb.Data, thumb.MIME
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}

// DeletePhoto handles DELETE /api/items/{id}/photo.
func (h *ItemsHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	d, item := h.itemDetail(w, r)
	if d == nil {
		return
	}
	defer d.Close()

	if err := d.DetachPhoto(r.Context(), item.ID); err != nil {
		writeError(w, err, d.State().Message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
