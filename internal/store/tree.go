package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/neuanfang/internal/model"
)

// LoadTree returns every room with its boxes and their items. Photo blobs
// are not loaded.
func LoadTree(ctx context.Context, db *sql.DB) ([]model.Room, error) {
	rooms, err := ListRooms(ctx, db)
	if err != nil {
		return nil, err
	}
	boxes, err := ListBoxes(ctx, db, "")
	if err != nil {
		return nil, err
	}
	items, err := ListItems(ctx, db, "")
	if err != nil {
		return nil, err
	}
	return assemble(rooms, boxes, items), nil
}

// GetRoomTree returns one room with its boxes and items.
func GetRoomTree(ctx context.Context, db *sql.DB, id string) (*model.Room, error) {
	room, err := GetRoom(ctx, db, id)
	if err != nil || room == nil {
		return room, err
	}
	boxes, err := ListBoxes(ctx, db, id)
	if err != nil {
		return nil, err
	}
	for i := range boxes {
		items, err := ListItems(ctx, db, boxes[i].ID)
		if err != nil {
			return nil, err
		}
		boxes[i].Items = items
	}
	room.Boxes = boxes
	return room, nil
}

// GetBoxTree returns one box with its items.
func GetBoxTree(ctx context.Context, db *sql.DB, id string) (*model.Box, error) {
	box, err := GetBox(ctx, db, id)
	if err != nil || box == nil {
		return box, err
	}
	items, err := ListItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	box.Items = items
	return box, nil
}

// assemble nests flat box and item lists under their rooms, keeping the
// input order at every level.
func assemble(rooms []model.Room, boxes []model.Box, items []model.Item) []model.Room {
	itemsByBox := make(map[string][]model.Item)
	for _, it := range items {
		itemsByBox[it.BoxID] = append(itemsByBox[it.BoxID], it)
	}

	boxesByRoom := make(map[string][]model.Box)
	for _, b := range boxes {
		b.Items = itemsByBox[b.ID]
		boxesByRoom[b.RoomID] = append(boxesByRoom[b.RoomID], b)
	}

	for i := range rooms {
		rooms[i].Boxes = boxesByRoom[rooms[i].ID]
	}
	return rooms
}
