package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/neuanfang/internal/model"
)

// ErrNotFound is returned by mutations whose target row does not exist.
var ErrNotFound = errors.New("not found")

const roomColumns = `id, name, room_type, color_tag, is_completed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*model.Room, error) {
	r := &model.Room{}
	var roomType string
	if err := row.Scan(&r.ID, &r.Name, &roomType, &r.ColorTag, &r.IsCompleted, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Type = model.RoomType(roomType)
	return r, nil
}

// CreateRoom creates a new room.
func CreateRoom(ctx context.Context, db *sql.DB, in model.RoomInput) (*model.Room, error) {
	in = in.Normalize()
	id := model.NewID()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, room_type, color_tag, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, in.Name, string(in.Type), in.ColorTag, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	return GetRoom(ctx, db, id)
}

// GetRoom returns a room by ID, without its boxes.
func GetRoom(ctx context.Context, db *sql.DB, id string) (*model.Room, error) {
	r, err := scanRoom(db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting room: %w", err)
	}
	return r, nil
}

// ListRooms returns all rooms, oldest first, without their boxes.
func ListRooms(ctx context.Context, db *sql.DB) ([]model.Room, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

// UpdateRoom updates a room's editable fields.
func UpdateRoom(ctx context.Context, db *sql.DB, id string, in model.RoomInput) error {
	in = in.Normalize()
	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET name = ?, room_type = ?, color_tag = ?, updated_at = ? WHERE id = ?`,
		in.Name, string(in.Type), in.ColorTag, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	return requireAffected(result)
}

// SetRoomCompleted marks a room as completed or reopens it.
func SetRoomCompleted(ctx context.Context, db *sql.DB, id string, completed bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET is_completed = ?, updated_at = ? WHERE id = ?`,
		completed, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting room completion: %w", err)
	}
	return requireAffected(result)
}

// DeleteRoom deletes a room together with its boxes and their items.
func DeleteRoom(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return requireAffected(result)
}

// requireAffected maps an update that touched no rows to ErrNotFound.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// touchRoom bumps a room's updated_at after one of its boxes changed.
func touchRoom(ctx context.Context, tx *sql.Tx, roomID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE rooms SET updated_at = ? WHERE id = ?`, time.Now().UTC(), roomID,
	)
	if err != nil {
		return fmt.Errorf("touching room: %w", err)
	}
	return nil
}
