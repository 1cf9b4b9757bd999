package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/erazemk/neuanfang/internal/model"
)

// Store binds the package functions to one database handle so it can be
// injected wherever a storage interface is expected.
type Store struct {
	DB *sql.DB
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// LoadTree returns every room with its boxes and items.
func (s *Store) LoadTree(ctx context.Context) ([]model.Room, error) {
	return LoadTree(ctx, s.DB)
}

// GetRoom returns a room without its boxes, or nil.
func (s *Store) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	return GetRoom(ctx, s.DB, id)
}

// GetRoomTree returns a room with its boxes and items, or nil.
func (s *Store) GetRoomTree(ctx context.Context, id string) (*model.Room, error) {
	return GetRoomTree(ctx, s.DB, id)
}

// CreateRoom creates a room.
func (s *Store) CreateRoom(ctx context.Context, in model.RoomInput) (*model.Room, error) {
	return CreateRoom(ctx, s.DB, in)
}

// UpdateRoom updates a room's editable fields.
func (s *Store) UpdateRoom(ctx context.Context, id string, in model.RoomInput) error {
	return UpdateRoom(ctx, s.DB, id, in)
}

// SetRoomCompleted marks a room as completed or reopens it.
func (s *Store) SetRoomCompleted(ctx context.Context, id string, completed bool) error {
	return SetRoomCompleted(ctx, s.DB, id, completed)
}

// DeleteRoom deletes a room with its boxes and items.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	return DeleteRoom(ctx, s.DB, id)
}

// CreateBox creates a box in a room.
func (s *Store) CreateBox(ctx context.Context, roomID string, in model.BoxInput) (*model.Box, error) {
	return CreateBox(ctx, s.DB, roomID, in)
}

// GetBox returns a box without its items, or nil.
func (s *Store) GetBox(ctx context.Context, id string) (*model.Box, error) {
	return GetBox(ctx, s.DB, id)
}

// GetBoxTree returns a box with its items, or nil.
func (s *Store) GetBoxTree(ctx context.Context, id string) (*model.Box, error) {
	return GetBoxTree(ctx, s.DB, id)
}

// GetBoxByQRCode returns the box labelled with code, or nil.
func (s *Store) GetBoxByQRCode(ctx context.Context, code string) (*model.Box, error) {
	return GetBoxByQRCode(ctx, s.DB, code)
}

// UpdateBox updates a box's editable fields.
func (s *Store) UpdateBox(ctx context.Context, id string, in model.BoxInput) error {
	return UpdateBox(ctx, s.DB, id, in)
}

// SetBoxPacked sets a box's packed flag.
func (s *Store) SetBoxPacked(ctx context.Context, id string, packed bool) error {
	return SetBoxPacked(ctx, s.DB, id, packed)
}

// SetBoxNFCTag stores or clears a box's NFC tag id.
func (s *Store) SetBoxNFCTag(ctx context.Context, id, tag string) error {
	return SetBoxNFCTag(ctx, s.DB, id, tag)
}

// DeleteBox deletes a box with its items.
func (s *Store) DeleteBox(ctx context.Context, id string) error {
	return DeleteBox(ctx, s.DB, id)
}

// ListItems returns the items of a box.
func (s *Store) ListItems(ctx context.Context, boxID string) ([]model.Item, error) {
	return ListItems(ctx, s.DB, boxID)
}

// CreateItem creates an item in a box.
func (s *Store) CreateItem(ctx context.Context, boxID string, in model.ItemInput) (*model.Item, error) {
	return CreateItem(ctx, s.DB, boxID, in)
}

// UpdateItem updates an item's editable fields.
func (s *Store) UpdateItem(ctx context.Context, id string, in model.ItemInput) error {
	return UpdateItem(ctx, s.DB, id, in)
}

// DeleteItem deletes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return DeleteItem(ctx, s.DB, id)
}

// SetItemPhoto stores or removes an item's photo.
func (s *Store) SetItemPhoto(ctx context.Context, id string, photo []byte, mime string) error {
	return SetItemPhoto(ctx, s.DB, id, photo, mime)
}

// MarkSynced records the time of the last successful sync.
func (s *Store) MarkSynced(ctx context.Context, at time.Time) error {
	return SetLastSyncAt(ctx, s.DB, at)
}

// LastSyncedAt returns the time of the last successful sync.
func (s *Store) LastSyncedAt(ctx context.Context) (time.Time, error) {
	return GetLastSyncAt(ctx, s.DB)
}
