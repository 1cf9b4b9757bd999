package presenter

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/store"
)

var errDisk = errors.New("disk full")

// memStore is an in-memory RoomStore and BoxStore with failure injection.
type memStore struct {
	mu     sync.Mutex
	rooms  []model.Room
	boxes  []model.Box
	items  []model.Item
	clock  time.Time
	failOn map[string]error
	loads  int
}

func newMemStore() *memStore {
	return &memStore{
		clock:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		failOn: make(map[string]error),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) fail(op string) error {
	return m.failOn[op]
}

func (m *memStore) LoadTree(context.Context) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if err := m.fail("LoadTree"); err != nil {
		return nil, err
	}
	out := make([]model.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		r.Boxes = nil
		for _, b := range m.boxes {
			if b.RoomID != r.ID {
				continue
			}
			b.Items = m.itemsOf(b.ID)
			r.Boxes = append(r.Boxes, b)
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) itemsOf(boxID string) []model.Item {
	var out []model.Item
	for _, it := range m.items {
		if it.BoxID == boxID {
			out = append(out, it)
		}
	}
	return out
}

func (m *memStore) GetRoom(_ context.Context, id string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateRoom(_ context.Context, in model.RoomInput) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateRoom"); err != nil {
		return nil, err
	}
	now := m.tick()
	r := model.Room{ID: model.NewID(), Name: in.Name, Type: in.Type, ColorTag: in.ColorTag, CreatedAt: now, UpdatedAt: now}
	m.rooms = append(m.rooms, r)
	return &r, nil
}

func (m *memStore) UpdateRoom(_ context.Context, id string, in model.RoomInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms[i].Name, m.rooms[i].Type, m.rooms[i].ColorTag = in.Name, in.Type, in.ColorTag
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) SetRoomCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetRoomCompleted"); err != nil {
		return err
	}
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms[i].IsCompleted = completed
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) DeleteRoom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteRoom"); err != nil {
		return err
	}
	n := len(m.rooms)
	m.rooms = slices.DeleteFunc(m.rooms, func(r model.Room) bool { return r.ID == id })
	if len(m.rooms) == n {
		return store.ErrNotFound
	}
	for _, b := range m.boxes {
		if b.RoomID == id {
			m.items = slices.DeleteFunc(m.items, func(it model.Item) bool { return it.BoxID == b.ID })
		}
	}
	m.boxes = slices.DeleteFunc(m.boxes, func(b model.Box) bool { return b.RoomID == id })
	return nil
}

func (m *memStore) addBox(roomID, name string, packed bool) model.Box {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	b := model.Box{ID: model.NewID(), RoomID: roomID, Name: name, IsPacked: packed, CreatedAt: now, UpdatedAt: now}
	m.boxes = append(m.boxes, b)
	return b
}

func (m *memStore) GetBox(_ context.Context, id string) (*model.Box, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetBox"); err != nil {
		return nil, err
	}
	for _, b := range m.boxes {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListItems(_ context.Context, boxID string) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListItems"); err != nil {
		return nil, err
	}
	return m.itemsOf(boxID), nil
}

func (m *memStore) SetBoxPacked(_ context.Context, id string, packed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.boxes {
		if m.boxes[i].ID == id {
			m.boxes[i].IsPacked = packed
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) DeleteBox(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boxes = slices.DeleteFunc(m.boxes, func(b model.Box) bool { return b.ID == id })
	m.items = slices.DeleteFunc(m.items, func(it model.Item) bool { return it.BoxID == id })
	return nil
}

func (m *memStore) CreateItem(_ context.Context, boxID string, in model.ItemInput) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateItem"); err != nil {
		return nil, err
	}
	now := m.tick()
	it := model.Item{
		ID: model.NewID(), BoxID: boxID, Name: in.Name, Description: in.Description,
		Category: in.Category, IsFragile: in.IsFragile, EstimatedValue: in.EstimatedValue,
		CreatedAt: now, UpdatedAt: now,
	}
	m.items = append(m.items, it)
	return &it, nil
}

func (m *memStore) UpdateItem(_ context.Context, id string, in model.ItemInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Name = in.Name
			m.items[i].Description = in.Description
			m.items[i].Category = in.Category
			m.items[i].IsFragile = in.IsFragile
			m.items[i].EstimatedValue = in.EstimatedValue
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.DeleteFunc(m.items, func(it model.Item) bool { return it.ID == id })
	return nil
}

func (m *memStore) SetItemPhoto(_ context.Context, id string, photo []byte, mime string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			if photo == nil {
				mime = ""
			}
			m.items[i].PhotoMime = mime
			return nil
		}
	}
	return store.ErrNotFound
}

// roomSpy records RoomChanged calls.
type roomSpy struct {
	mu    sync.Mutex
	rooms []string
}

func (s *roomSpy) RoomChanged(_ context.Context, roomID string) {
	s.mu.Lock()
	s.rooms = append(s.rooms, roomID)
	s.mu.Unlock()
}

func (s *roomSpy) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.rooms...)
}
