package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "umzug.sqlite3")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if err := Migrate(ctx, database); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(ctx, database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	v, err := Version(ctx, database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 1 {
		t.Errorf("expected schema version 1, got %d", v)
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestDB(t)

	var on int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if on != 1 {
		t.Errorf("expected foreign_keys=1, got %d", on)
	}
}
