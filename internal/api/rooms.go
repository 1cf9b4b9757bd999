package api

import (
	"net/http"

	"github.com/erazemk/neuanfang/internal/catalog"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/presenter"
	"github.com/erazemk/neuanfang/internal/stats"
	"github.com/erazemk/neuanfang/internal/store"
)

// RoomsHandler serves the room list and room mutations through the shared
// catalog presenter.
type RoomsHandler struct {
	Store   *store.Store
	Catalog *presenter.RoomCatalog
}

type roomListResponse struct {
	Rooms []roomView      `json:"rooms"`
	Stats stats.RoomStats `json:"stats"`
}

// roomView adds the derived values of a room.
type roomView struct {
	model.Room
	TotalBoxes  int                    `json:"total_boxes"`
	PackedBoxes int                    `json:"packed_boxes"`
	TotalItems  int                    `json:"total_items"`
	Progress    float64                `json:"progress"`
	Status      model.CompletionStatus `json:"status"`
}

func newRoomView(r model.Room) roomView {
	return roomView{
		Room:        r,
		TotalBoxes:  r.TotalBoxes(),
		PackedBoxes: r.PackedBoxes(),
		TotalItems:  r.TotalItems(),
		Progress:    r.PackingProgress(),
		Status:      r.CompletionStatus(),
	}
}

func roomQuery(r *http.Request) (catalog.RoomQuery, error) {
	q := r.URL.Query()
	filter, err := catalog.ParseRoomFilter(q.Get("filter"))
	if err != nil {
		return catalog.RoomQuery{}, err
	}
	sort, err := catalog.ParseRoomSort(q.Get("sort"))
	if err != nil {
		return catalog.RoomQuery{}, err
	}
	return catalog.RoomQuery{Search: q.Get("q"), Sort: sort, Filter: filter}, nil
}

// List handles GET /api/rooms.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := roomQuery(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Catalog.Load(r.Context()); err != nil {
		writeError(w, err, "failed to load rooms")
		return
	}

	rooms, st := h.Catalog.View(query)
	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, newRoomView(room))
	}
	jsonResponse(w, http.StatusOK, roomListResponse{Rooms: views, Stats: st})
}

// Create handles POST /api/rooms.
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.RoomInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.Catalog.AddRoom(r.Context(), in)
	if err != nil {
		writeError(w, err, "failed to create room")
		return
	}
	jsonResponse(w, http.StatusCreated, room)
}

// Get handles GET /api/rooms/{id}.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.Store.GetRoomTree(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "failed to get room")
		return
	}
	if room == nil {
		jsonError(w, http.StatusNotFound, "room not found")
		return
	}
	jsonResponse(w, http.StatusOK, newRoomView(*room))
}

// Update handles PUT /api/rooms/{id}.
func (h *RoomsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.RoomInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := h.Catalog.UpdateRoom(r.Context(), id, in); err != nil {
		writeError(w, err, "failed to update room")
		return
	}
	h.Get(w, r)
}

// ToggleComplete handles POST /api/rooms/{id}/complete.
func (h *RoomsHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.ToggleCompletion(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err, "failed to update room")
		return
	}
	h.Get(w, r)
}

// Delete handles DELETE /api/rooms/{id}.
func (h *RoomsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteRoom(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err, "failed to delete room")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
