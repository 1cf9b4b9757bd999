package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// Setting keys.
const (
	SettingJWTSecret  = "jwt_secret"
	SettingLastSyncAt = "last_sync_at"
)

// GetSetting returns a setting value, or "" if it is unset.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

// PutSetting stores a setting value, replacing any previous one.
func PutSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

// GetJWTSecret retrieves the token signing secret, generating and storing one
// on first use. INSERT OR IGNORE plus re-SELECT keeps concurrent first starts
// on the same secret.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		SettingJWTSecret, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	return GetSetting(ctx, db, SettingJWTSecret)
}

// GetLastSyncAt returns the time of the last successful sync, or the zero
// time if the tree was never synced.
func GetLastSyncAt(ctx context.Context, db *sql.DB) (time.Time, error) {
	v, err := GetSetting(ctx, db, SettingLastSyncAt)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing last sync time: %w", err)
	}
	return t, nil
}

// SetLastSyncAt records a successful sync.
func SetLastSyncAt(ctx context.Context, db *sql.DB, t time.Time) error {
	return PutSetting(ctx, db, SettingLastSyncAt, t.UTC().Format(time.RFC3339Nano))
}
