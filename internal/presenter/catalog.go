package presenter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/erazemk/neuanfang/internal/catalog"
	"github.com/erazemk/neuanfang/internal/cloudsync"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/stats"
)

// CatalogState is what the room list shows.
type CatalogState struct {
	Query       catalog.RoomQuery
	Rooms       []model.Room
	Stats       stats.RoomStats
	FieldErrors map[string]string
	Message     string
	Loaded      bool
}

// SyncSource announces synchronization status changes.
type SyncSource interface {
	Subscribe(fn func(cloudsync.State)) (unsubscribe func())
}

// RoomCatalog presents the filtered, sorted room list and the move's
// statistics. Operations run one at a time in call order.
type RoomCatalog struct {
	store RoomStore

	ops sync.Mutex // serializes operations

	mu         sync.Mutex // guards the fields below
	rooms      []model.Room
	state      CatalogState
	listener   func(CatalogState)
	generation uint64

	search *debouncer
}

// NewRoomCatalog returns a catalog reading and writing through s.
func NewRoomCatalog(s RoomStore) *RoomCatalog {
	return &RoomCatalog{
		store: s,
		state: CatalogState{Query: catalog.RoomQuery{
			Sort:   catalog.SortRoomsByName,
			Filter: catalog.RoomsAll,
		}},
		search: newDebouncer(DefaultDebounce),
	}
}

// OnChange registers the listener called with a copy of the state after
// every update. It replaces any previous listener.
func (c *RoomCatalog) OnChange(fn func(CatalogState)) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

// State returns a copy of the current state.
func (c *RoomCatalog) State() CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// View applies q to the loaded rooms without changing the catalog's own
// query. The statistics always cover every room.
func (c *RoomCatalog) View(q catalog.RoomQuery) ([]model.Room, stats.RoomStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return q.Apply(c.rooms), stats.ComputeRoomStats(c.rooms)
}

// Rooms returns the full loaded collection.
func (c *RoomCatalog) Rooms() []model.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Room(nil), c.rooms...)
}

func (c *RoomCatalog) snapshotLocked() CatalogState {
	s := c.state
	s.Rooms = append([]model.Room(nil), c.state.Rooms...)
	s.FieldErrors = cloneErrors(c.state.FieldErrors)
	return s
}

// update is the only place the state changes. It recomputes the display
// list and the statistics and notifies the listener.
func (c *RoomCatalog) update(fn func(*CatalogState)) {
	c.mu.Lock()
	fn(&c.state)
	snap, listener := c.commitLocked()
	c.mu.Unlock()

	if listener != nil {
		listener(snap)
	}
}

func (c *RoomCatalog) commitLocked() (CatalogState, func(CatalogState)) {
	c.state.Rooms = c.state.Query.Apply(c.rooms)
	c.state.Stats = stats.ComputeRoomStats(c.rooms)
	return c.snapshotLocked(), c.listener
}

// Load fetches the full tree from storage.
func (c *RoomCatalog) Load(ctx context.Context) error {
	c.ops.Lock()
	defer c.ops.Unlock()
	return c.reload(ctx)
}

func (c *RoomCatalog) reload(ctx context.Context) error {
	rooms, err := c.store.LoadTree(ctx)
	if err != nil {
		f := classify("loading rooms", err, msgLoadFailed)
		c.update(func(s *CatalogState) { s.Message = f.message })
		return f.err
	}
	c.update(func(s *CatalogState) {
		c.rooms = rooms
		s.Loaded = true
		s.Message = ""
		s.FieldErrors = nil
	})
	return nil
}

func (c *RoomCatalog) fail(op string, err error, message string) error {
	f := classify(op, err, message)
	c.update(func(s *CatalogState) {
		s.FieldErrors = f.fieldErrors
		s.Message = f.message
	})
	return f.err
}

// SetSearch applies a search text immediately and drops any pending
// debounced search.
func (c *RoomCatalog) SetSearch(text string) {
	c.search.cancel()
	c.update(func(s *CatalogState) {
		c.generation++
		s.Query.Search = text
	})
}

// SetSearchDebounced applies text once no newer search arrived within the
// debounce window.
func (c *RoomCatalog) SetSearchDebounced(text string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.search.debounce(func() {
		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.state.Query.Search = text
		snap, listener := c.commitLocked()
		c.mu.Unlock()

		if listener != nil {
			listener(snap)
		}
	})
}

// SetSort changes the sort key.
func (c *RoomCatalog) SetSort(key catalog.RoomSort) {
	c.update(func(s *CatalogState) { s.Query.Sort = key })
}

// SetFilter changes the filter.
func (c *RoomCatalog) SetFilter(f catalog.RoomFilter) {
	c.update(func(s *CatalogState) { s.Query.Filter = f })
}

// AddRoom saves a new room and reloads.
func (c *RoomCatalog) AddRoom(ctx context.Context, in model.RoomInput) (*model.Room, error) {
	c.ops.Lock()
	defer c.ops.Unlock()

	in = in.Normalize()
	if err := model.ValidateRoom(in); err != nil {
		return nil, c.fail("validating room", err, "")
	}
	room, err := c.store.CreateRoom(ctx, in)
	if err != nil {
		return nil, c.fail("adding room", err, msgSaveFailed)
	}
	return room, c.reload(ctx)
}

// UpdateRoom saves a room's editable fields and reloads.
func (c *RoomCatalog) UpdateRoom(ctx context.Context, id string, in model.RoomInput) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	in = in.Normalize()
	if err := model.ValidateRoom(in); err != nil {
		return c.fail("validating room", err, "")
	}
	if err := c.store.UpdateRoom(ctx, id, in); err != nil {
		return c.fail("updating room", err, msgSaveFailed)
	}
	return c.reload(ctx)
}

// ToggleCompletion flips a room's completed flag and reloads.
func (c *RoomCatalog) ToggleCompletion(ctx context.Context, id string) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return c.fail("loading room", err, msgSaveFailed)
	}
	if room == nil {
		return c.fail("loading room", ErrNotFound, "")
	}
	if err := c.store.SetRoomCompleted(ctx, id, !room.IsCompleted); err != nil {
		return c.fail("toggling room completion", err, msgSaveFailed)
	}
	return c.reload(ctx)
}

// DeleteRoom deletes a room with its boxes and items and reloads.
func (c *RoomCatalog) DeleteRoom(ctx context.Context, id string) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	if err := c.store.DeleteRoom(ctx, id); err != nil {
		return c.fail("deleting room", err, msgDeleteFailed)
	}
	return c.reload(ctx)
}

// RoomChanged reloads the tree after a box or item of roomID changed.
func (c *RoomCatalog) RoomChanged(ctx context.Context, roomID string) {
	c.ops.Lock()
	defer c.ops.Unlock()

	if err := c.reload(ctx); err != nil {
		slog.Warn("reloading changed room", "room", roomID, "error", err)
	}
}

// Attach reloads the catalog whenever src reports a successful sync.
func (c *RoomCatalog) Attach(src SyncSource) (detach func()) {
	return src.Subscribe(func(st cloudsync.State) {
		if st.Status != cloudsync.StatusSuccess {
			return
		}
		if err := c.Load(context.Background()); err != nil {
			slog.Warn("reloading after sync", "error", err)
		}
	})
}

// Close drops any pending debounced search.
func (c *RoomCatalog) Close() {
	c.search.cancel()
}
