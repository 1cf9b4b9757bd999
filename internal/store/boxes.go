package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/neuanfang/internal/model"
)

var boxColumns = []string{
	"id", "room_id", "name", "notes", "priority", "estimated_value",
	"is_packed", "qr_code", "nfc_tag", "created_at", "updated_at",
}

func scanBox(row rowScanner) (*model.Box, error) {
	b := &model.Box{}
	var notes, nfcTag sql.NullString
	var priority int
	if err := row.Scan(&b.ID, &b.RoomID, &b.Name, &notes, &priority, &b.EstimatedValue,
		&b.IsPacked, &b.QRCode, &nfcTag, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Notes = notes.String
	b.NFCTag = nfcTag.String
	b.Priority = model.Priority(priority)
	return b, nil
}

// CreateBox creates a box in a room and assigns its QR code. The code is
// generated once here and never changes afterwards.
func CreateBox(ctx context.Context, db *sql.DB, roomID string, in model.BoxInput) (*model.Box, error) {
	in = in.Normalize()

	code, err := model.NewQRCode()
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}
	id := model.NewID()
	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, roomID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, model.NewMissingParentError("room_id")
	}
	if err != nil {
		return nil, fmt.Errorf("checking room: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO boxes (id, room_id, name, notes, priority, estimated_value, qr_code, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, roomID, in.Name, in.Notes, int(in.PriorityOr(model.DefaultPriority)), in.EstimatedValue, code, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating box: %w", err)
	}
	if err := touchRoom(ctx, tx, roomID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing box: %w", err)
	}

	return GetBox(ctx, db, id)
}

// GetBox returns a box by ID, without its items.
func GetBox(ctx context.Context, db *sql.DB, id string) (*model.Box, error) {
	query, args, err := sq.Select(boxColumns...).From("boxes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building box query: %w", err)
	}
	b, err := scanBox(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting box: %w", err)
	}
	return b, nil
}

// GetBoxByQRCode returns the box labelled with code.
func GetBoxByQRCode(ctx context.Context, db *sql.DB, code string) (*model.Box, error) {
	query, args, err := sq.Select(boxColumns...).From("boxes").Where(sq.Eq{"qr_code": code}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building box query: %w", err)
	}
	b, err := scanBox(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting box by qr code: %w", err)
	}
	return b, nil
}

// ListBoxes returns boxes, oldest first, optionally limited to one room.
func ListBoxes(ctx context.Context, db *sql.DB, roomID string) ([]model.Box, error) {
	q := sq.Select(boxColumns...).From("boxes").OrderBy("created_at", "id")
	if roomID != "" {
		q = q.Where(sq.Eq{"room_id": roomID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building box query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing boxes: %w", err)
	}
	defer rows.Close()

	var boxes []model.Box
	for rows.Next() {
		b, err := scanBox(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning box: %w", err)
		}
		boxes = append(boxes, *b)
	}
	return boxes, rows.Err()
}

// UpdateBox updates a box's editable fields. The QR code is not editable.
// A nil priority keeps the stored one.
func UpdateBox(ctx context.Context, db *sql.DB, id string, in model.BoxInput) error {
	in = in.Normalize()
	q := sq.Update("boxes").
		Set("name", in.Name).
		Set("notes", in.Notes).
		Set("estimated_value", in.EstimatedValue).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	if in.Priority != nil {
		q = q.Set("priority", int(*in.Priority))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building box update: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating box: %w", err)
	}
	return requireAffected(result)
}

// SetBoxPacked sets a box's packed flag and bumps its room.
func SetBoxPacked(ctx context.Context, db *sql.DB, id string, packed bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var roomID string
	err = tx.QueryRowContext(ctx, `SELECT room_id FROM boxes WHERE id = ?`, id).Scan(&roomID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking box: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE boxes SET is_packed = ?, updated_at = ? WHERE id = ?`,
		packed, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting box packed: %w", err)
	}
	if err := touchRoom(ctx, tx, roomID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing packed flag: %w", err)
	}
	return nil
}

// SetBoxNFCTag associates an NFC tag id with a box. An empty tag clears it.
func SetBoxNFCTag(ctx context.Context, db *sql.DB, id, tag string) error {
	var value any
	if tag != "" {
		value = tag
	}
	result, err := db.ExecContext(ctx,
		`UPDATE boxes SET nfc_tag = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting box nfc tag: %w", err)
	}
	return requireAffected(result)
}

// DeleteBox deletes a box together with its items.
func DeleteBox(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var roomID string
	err = tx.QueryRowContext(ctx, `SELECT room_id FROM boxes WHERE id = ?`, id).Scan(&roomID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking box: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM boxes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting box: %w", err)
	}
	if err := touchRoom(ctx, tx, roomID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing box deletion: %w", err)
	}
	return nil
}
