package presenter

import (
	"context"
	"sync"

	"github.com/erazemk/neuanfang/internal/catalog"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/stats"
)

// DetailState is what the box screen shows. Box carries every item of the
// box; Items is the filtered, sorted subset.
type DetailState struct {
	Box         *model.Box
	Items       []model.Item
	Stats       stats.BoxStats
	Query       catalog.ItemQuery
	FieldErrors map[string]string
	Message     string
}

// BoxDetail presents one box and its items.
type BoxDetail struct {
	store BoxStore
	rooms RoomNotifier

	ops sync.Mutex // serializes operations

	mu         sync.Mutex // guards the fields below
	box        *model.Box
	state      DetailState
	listener   func(DetailState)
	generation uint64

	search *debouncer
}

// NewBoxDetail returns a box presenter. rooms may be nil.
func NewBoxDetail(s BoxStore, rooms RoomNotifier) *BoxDetail {
	return &BoxDetail{
		store: s,
		rooms: rooms,
		state: DetailState{Query: catalog.ItemQuery{
			Sort:   catalog.SortItemsByName,
			Filter: catalog.AllItems(),
		}},
		search: newDebouncer(DefaultDebounce),
	}
}

// OnChange registers the listener called after every update.
func (d *BoxDetail) OnChange(fn func(DetailState)) {
	d.mu.Lock()
	d.listener = fn
	d.mu.Unlock()
}

// State returns a copy of the current state.
func (d *BoxDetail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *BoxDetail) snapshotLocked() DetailState {
	s := d.state
	if d.state.Box != nil {
		b := *d.state.Box
		b.Items = append([]model.Item(nil), d.state.Box.Items...)
		s.Box = &b
	}
	s.Items = append([]model.Item(nil), d.state.Items...)
	s.FieldErrors = cloneErrors(d.state.FieldErrors)
	return s
}

func (d *BoxDetail) update(fn func(*DetailState)) {
	d.mu.Lock()
	fn(&d.state)
	snap, listener := d.commitLocked()
	d.mu.Unlock()

	if listener != nil {
		listener(snap)
	}
}

func (d *BoxDetail) commitLocked() (DetailState, func(DetailState)) {
	d.state.Box = d.box
	var items []model.Item
	if d.box != nil {
		items = d.box.Items
	}
	d.state.Items = d.state.Query.Apply(items)
	d.state.Stats = stats.ComputeBoxStats(items)
	return d.snapshotLocked(), d.listener
}

func (d *BoxDetail) fail(op string, err error, message string) error {
	f := classify(op, err, message)
	d.update(func(s *DetailState) {
		s.FieldErrors = f.fieldErrors
		s.Message = f.message
	})
	return f.err
}

// Load fetches a box and its items.
func (d *BoxDetail) Load(ctx context.Context, boxID string) error {
	d.ops.Lock()
	defer d.ops.Unlock()
	return d.reload(ctx, boxID)
}

func (d *BoxDetail) reload(ctx context.Context, boxID string) error {
	box, err := d.store.GetBox(ctx, boxID)
	if err != nil {
		return d.fail("loading box", err, msgLoadFailed)
	}
	if box == nil {
		d.update(func(s *DetailState) {
			d.box = nil
			s.Message = msgNotFound
		})
		return ErrNotFound
	}
	items, err := d.store.ListItems(ctx, boxID)
	if err != nil {
		return d.fail("loading items", err, msgLoadFailed)
	}
	box.Items = items
	d.update(func(s *DetailState) {
		d.box = box
		s.Message = ""
		s.FieldErrors = nil
	})
	return nil
}

// loaded returns the current box, or nil.
func (d *BoxDetail) loaded() *model.Box {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.box
}

func (d *BoxDetail) hasItem(b *model.Box, id string) bool {
	for _, it := range b.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// changed reloads the box and tells the owning room.
func (d *BoxDetail) changed(ctx context.Context, b *model.Box) error {
	err := d.reload(ctx, b.ID)
	if d.rooms != nil {
		d.rooms.RoomChanged(ctx, b.RoomID)
	}
	return err
}

// SetSearch applies an item search immediately.
func (d *BoxDetail) SetSearch(text string) {
	d.search.cancel()
	d.update(func(s *DetailState) {
		d.generation++
		s.Query.Search = text
	})
}

// SetSearchDebounced applies text once no newer search arrived within the
// debounce window.
func (d *BoxDetail) SetSearchDebounced(text string) {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.mu.Unlock()

	d.search.debounce(func() {
		d.mu.Lock()
		if gen != d.generation {
			d.mu.Unlock()
			return
		}
		d.state.Query.Search = text
		snap, listener := d.commitLocked()
		d.mu.Unlock()

		if listener != nil {
			listener(snap)
		}
	})
}

// SetSort changes the item sort key.
func (d *BoxDetail) SetSort(key catalog.ItemSort) {
	d.update(func(s *DetailState) { s.Query.Sort = key })
}

// SetFilter changes the item filter.
func (d *BoxDetail) SetFilter(f catalog.ItemFilter) {
	d.update(func(s *DetailState) { s.Query.Filter = f })
}

// AddItem saves a new item in the loaded box.
func (d *BoxDetail) AddItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return nil, ErrNotLoaded
	}
	in = in.Normalize()
	if err := model.ValidateItem(in); err != nil {
		return nil, d.fail("validating item", err, "")
	}
	item, err := d.store.CreateItem(ctx, b.ID, in)
	if err != nil {
		return nil, d.fail("adding item", err, msgSaveFailed)
	}
	return item, d.changed(ctx, b)
}

// UpdateItem saves an item of the loaded box.
func (d *BoxDetail) UpdateItem(ctx context.Context, id string, in model.ItemInput) error {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return ErrNotLoaded
	}
	if !d.hasItem(b, id) {
		return d.fail("updating item", ErrNotFound, "")
	}
	in = in.Normalize()
	if err := model.ValidateItem(in); err != nil {
		return d.fail("validating item", err, "")
	}
	if err := d.store.UpdateItem(ctx, id, in); err != nil {
		return d.fail("updating item", err, msgSaveFailed)
	}
	return d.changed(ctx, b)
}

// DeleteItem deletes an item of the loaded box.
func (d *BoxDetail) DeleteItem(ctx context.Context, id string) error {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return ErrNotLoaded
	}
	if !d.hasItem(b, id) {
		return d.fail("deleting item", ErrNotFound, "")
	}
	if err := d.store.DeleteItem(ctx, id); err != nil {
		return d.fail("deleting item", err, msgDeleteFailed)
	}
	return d.changed(ctx, b)
}

// AttachPhoto stores a photo for an item of the loaded box.
func (d *BoxDetail) AttachPhoto(ctx context.Context, id string, photo []byte, mime string) error {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return ErrNotLoaded
	}
	if !d.hasItem(b, id) {
		return d.fail("attaching photo", ErrNotFound, "")
	}
	if err := d.store.SetItemPhoto(ctx, id, photo, mime); err != nil {
		return d.fail("attaching photo", err, msgSaveFailed)
	}
	return d.changed(ctx, b)
}

// DetachPhoto removes an item's photo.
func (d *BoxDetail) DetachPhoto(ctx context.Context, id string) error {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return ErrNotLoaded
	}
	if !d.hasItem(b, id) {
		return d.fail("detaching photo", ErrNotFound, "")
	}
	if err := d.store.SetItemPhoto(ctx, id, nil, ""); err != nil {
		return d.fail("detaching photo", err, msgSaveFailed)
	}
	return d.changed(ctx, b)
}

// TogglePacked flips the loaded box's packed flag.
func (d *BoxDetail) TogglePacked(ctx context.Context) error {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return ErrNotLoaded
	}
	current, err := d.store.GetBox(ctx, b.ID)
	if err != nil {
		return d.fail("loading box", err, msgSaveFailed)
	}
	if current == nil {
		return d.fail("loading box", ErrNotFound, "")
	}
	if err := d.store.SetBoxPacked(ctx, b.ID, !current.IsPacked); err != nil {
		return d.fail("toggling packed", err, msgSaveFailed)
	}
	return d.changed(ctx, b)
}

// DeleteBox deletes the loaded box with its items. The presenter is empty
// afterwards.
func (d *BoxDetail) DeleteBox(ctx context.Context) error {
	d.ops.Lock()
	defer d.ops.Unlock()

	b := d.loaded()
	if b == nil {
		return ErrNotLoaded
	}
	if err := d.store.DeleteBox(ctx, b.ID); err != nil {
		return d.fail("deleting box", err, msgDeleteFailed)
	}
	d.update(func(s *DetailState) {
		d.box = nil
		s.Message = ""
		s.FieldErrors = nil
	})
	if d.rooms != nil {
		d.rooms.RoomChanged(ctx, b.RoomID)
	}
	return nil
}

// Close drops any pending debounced search.
func (d *BoxDetail) Close() {
	d.search.cancel()
}
