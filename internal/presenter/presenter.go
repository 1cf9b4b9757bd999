// Package presenter keeps the display state of the room list and of a single
// box. Every write goes to storage first; the state is then reloaded from
// storage and never patched in place.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/store"
)

var (
	// ErrPersistence wraps storage failures surfaced by a presenter.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotFound reports that the targeted entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotLoaded reports a box operation before Load succeeded.
	ErrNotLoaded = errors.New("no box loaded")
)

// User-facing messages.
const (
	msgLoadFailed   = "Daten konnten nicht geladen werden."
	msgSaveFailed   = "Änderungen konnten nicht gespeichert werden."
	msgDeleteFailed = "Löschen fehlgeschlagen."
	msgNotFound     = "Eintrag wurde nicht gefunden."
)

// RoomStore is the storage used by RoomCatalog.
type RoomStore interface {
	LoadTree(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	CreateRoom(ctx context.Context, in model.RoomInput) (*model.Room, error)
	UpdateRoom(ctx context.Context, id string, in model.RoomInput) error
	SetRoomCompleted(ctx context.Context, id string, completed bool) error
	DeleteRoom(ctx context.Context, id string) error
}

// BoxStore is the storage used by BoxDetail.
type BoxStore interface {
	GetBox(ctx context.Context, id string) (*model.Box, error)
	ListItems(ctx context.Context, boxID string) ([]model.Item, error)
	SetBoxPacked(ctx context.Context, id string, packed bool) error
	DeleteBox(ctx context.Context, id string) error
	CreateItem(ctx context.Context, boxID string, in model.ItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, in model.ItemInput) error
	DeleteItem(ctx context.Context, id string) error
	SetItemPhoto(ctx context.Context, id string, photo []byte, mime string) error
}

// RoomNotifier is told when a room's boxes or items changed so its derived
// values can be recomputed.
type RoomNotifier interface {
	RoomChanged(ctx context.Context, roomID string)
}

var (
	_ RoomStore    = (*store.Store)(nil)
	_ BoxStore     = (*store.Store)(nil)
	_ RoomNotifier = (*RoomCatalog)(nil)
)

// failure classifies a write error. Validation errors are returned as they
// are and reported per field; anything else becomes a message.
type failure struct {
	fieldErrors map[string]string
	message     string
	err         error
}

func classify(op string, err error, message string) failure {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return failure{fieldErrors: map[string]string{verr.Field: verr.Message}, err: err}
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ErrNotFound):
		return failure{message: msgNotFound, err: ErrNotFound}
	default:
		slog.Error(op, "error", err)
		return failure{message: message, err: fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)}
	}
}

func cloneErrors(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
