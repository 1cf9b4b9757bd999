package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/erazemk/neuanfang/internal/auth"
	"github.com/erazemk/neuanfang/internal/cloudsync"
	"github.com/erazemk/neuanfang/internal/config"
	"github.com/erazemk/neuanfang/internal/db"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/store"
)

// openDatabase opens the database and applies pending migrations.
func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, err
	}

	version, err := db.Version(ctx, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	slog.Debug("database ready", "path", path, "schema", version)
	return database, nil
}

// ensureOwner creates the owner account when the database has no users
// yet. It returns the generated password, or "" when accounts exist.
func ensureOwner(ctx context.Context, database *sql.DB, username string) (string, error) {
	users, err := store.ListUsers(ctx, database)
	if err != nil {
		return "", err
	}
	if len(users) > 0 {
		return "", nil
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := store.CreateUser(ctx, database, username, hash, model.RoleOwner); err != nil {
		return "", fmt.Errorf("creating owner account: %w", err)
	}
	return password, nil
}

// printInitResult prints the generated owner credentials.
func printInitResult(w io.Writer, dbPath, username, password string) {
	fmt.Fprintf(w, "Database created: %s\n", dbPath)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Owner account created:")
	fmt.Fprintf(w, "  Username: %s\n", username)
	fmt.Fprintf(w, "  Password: %s\n", password)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save this password. It cannot be recovered.")
	fmt.Fprintln(w, "The owner can change it after logging in.")
}

// newFacade returns a sync facade for cfg. An empty URL disables sync.
func newFacade(cfg config.SyncConfig, s *store.Store) *cloudsync.Facade {
	if !cfg.Enabled() {
		return cloudsync.New(s, nil)
	}
	return cloudsync.New(s, cloudsync.NewHTTPRemote(cloudsync.HTTPConfig{
		URL:       cfg.URL,
		Token:     cfg.Token,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		RetryWait: cfg.RetryWait,
	}))
}
