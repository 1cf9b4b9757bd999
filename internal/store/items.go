package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/neuanfang/internal/model"
)

var itemColumns = []string{
	"id", "box_id", "name", "description", "category", "is_fragile",
	"estimated_value", "photo_mime", "created_at", "updated_at",
}

func scanItem(row rowScanner) (*model.Item, error) {
	it := &model.Item{}
	var description, photoMime sql.NullString
	var category string
	if err := row.Scan(&it.ID, &it.BoxID, &it.Name, &description, &category, &it.IsFragile,
		&it.EstimatedValue, &photoMime, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Description = description.String
	it.PhotoMime = photoMime.String
	it.Category = model.Category(category)
	return it, nil
}

// CreateItem creates an item in a box.
func CreateItem(ctx context.Context, db *sql.DB, boxID string, in model.ItemInput) (*model.Item, error) {
	in = in.Normalize()
	id := model.NewID()
	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM boxes WHERE id = ?`, boxID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, model.NewMissingParentError("box_id")
	}
	if err != nil {
		return nil, fmt.Errorf("checking box: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, box_id, name, description, category, is_fragile, estimated_value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, boxID, in.Name, in.Description, string(in.Category), in.IsFragile, in.EstimatedValue, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	query, args, err := sq.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}
	it, err := scanItem(db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ListItems returns items, oldest first, optionally limited to one box.
// Photo blobs are not loaded.
func ListItems(ctx context.Context, db *sql.DB, boxID string) ([]model.Item, error) {
	q := sq.Select(itemColumns...).From("items").OrderBy("created_at", "id")
	if boxID != "" {
		q = q.Where(sq.Eq{"box_id": boxID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's editable fields.
func UpdateItem(ctx context.Context, db *sql.DB, id string, in model.ItemInput) error {
	in = in.Normalize()
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, category = ?, is_fragile = ?, estimated_value = ?, updated_at = ?
		 WHERE id = ?`,
		in.Name, in.Description, string(in.Category), in.IsFragile, in.EstimatedValue, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result)
}

// DeleteItem deletes an item and its photo.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result)
}

// SetItemPhoto sets an item's photo. A nil photo removes it.
func SetItemPhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) error {
	var photoValue, mimeValue any
	if photo != nil {
		photoValue, mimeValue = photo, mime
	}
	result, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = ? WHERE id = ?`,
		photoValue, mimeValue, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return requireAffected(result)
}

// GetItemPhoto returns an item's photo data and MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}
