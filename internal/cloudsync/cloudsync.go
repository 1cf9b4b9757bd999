// Package cloudsync pushes snapshots of the moving plan to a remote backup
// endpoint and reports the outcome as a status.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/stats"
)

// ErrDisabled is returned by Refresh when no remote is configured.
var ErrDisabled = errors.New("cloud sync is disabled")

// Status is the state of the last synchronization.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// State is what listeners receive.
type State struct {
	Status      Status    `json:"status"`
	LastError   string    `json:"last_error,omitempty"`
	LastSuccess time.Time `json:"last_success,omitzero"`
}

// Document is the snapshot sent to the remote.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Stats      stats.RoomStats `json:"stats"`
	Rooms      []model.Room    `json:"rooms"`
}

// DocumentVersion is the current Document layout.
const DocumentVersion = 1

// Source provides the local tree and records successful syncs.
type Source interface {
	LoadTree(ctx context.Context) ([]model.Room, error)
	MarkSynced(ctx context.Context, at time.Time) error
	LastSyncedAt(ctx context.Context) (time.Time, error)
}

// Remote receives snapshots.
type Remote interface {
	Push(ctx context.Context, doc Document) error
}

// Disabled is the Remote used when no endpoint is configured.
type Disabled struct{}

// Push always fails with ErrDisabled.
func (Disabled) Push(context.Context, Document) error { return ErrDisabled }

// Facade runs synchronizations. Concurrent Refresh calls share one
// in-flight run. Local storage never waits on it.
type Facade struct {
	source Source
	remote Remote
	group  singleflight.Group
	now    func() time.Time

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// New returns an idle facade.
func New(source Source, remote Remote) *Facade {
	if remote == nil {
		remote = Disabled{}
	}
	return &Facade{
		source:    source,
		remote:    remote,
		now:       time.Now,
		state:     State{Status: StatusIdle},
		listeners: make(map[int]func(State)),
	}
}

// Enabled reports whether a remote is configured.
func (f *Facade) Enabled() bool {
	_, disabled := f.remote.(Disabled)
	return !disabled
}

// State returns the current status.
func (f *Facade) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe registers fn for status changes. Listeners run on the
// goroutine performing the sync.
func (f *Facade) Subscribe(fn func(State)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *Facade) set(fn func(*State)) {
	f.mu.Lock()
	fn(&f.state)
	st := f.state
	listeners := make([]func(State), 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(st)
	}
}

// Restore loads the time of the last successful sync from the source.
func (f *Facade) Restore(ctx context.Context) error {
	at, err := f.source.LastSyncedAt(ctx)
	if err != nil {
		return fmt.Errorf("restoring sync state: %w", err)
	}
	f.mu.Lock()
	f.state.LastSuccess = at
	f.mu.Unlock()
	return nil
}

// Refresh pushes the current tree to the remote. The shared run does not
// stop when one caller's ctx is done; that caller just stops waiting.
func (f *Facade) Refresh(ctx context.Context) error {
	if !f.Enabled() {
		return ErrDisabled
	}
	runCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan("refresh", func() (any, error) {
		return nil, f.refresh(runCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Facade) refresh(ctx context.Context) error {
	f.set(func(s *State) { s.Status = StatusSyncing })

	rooms, err := f.source.LoadTree(ctx)
	if err != nil {
		return f.failed(fmt.Errorf("loading tree: %w", err))
	}

	now := f.now().UTC()
	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: now,
		Stats:      stats.ComputeRoomStats(rooms),
		Rooms:      rooms,
	}
	if err := f.remote.Push(ctx, doc); err != nil {
		return f.failed(err)
	}

	if err := f.source.MarkSynced(ctx, now); err != nil {
		slog.Warn("recording sync time", "error", err)
	}
	f.set(func(s *State) {
		s.Status = StatusSuccess
		s.LastError = ""
		s.LastSuccess = now
	})
	slog.Info("sync completed", "rooms", len(rooms))
	return nil
}

func (f *Facade) failed(err error) error {
	slog.Error("sync failed", "error", err)
	f.set(func(s *State) {
		s.Status = StatusFailure
		s.LastError = err.Error()
	})
	return err
}

// Run refreshes every interval until ctx is done. Failures are reported
// through the status only.
func (f *Facade) Run(ctx context.Context, interval time.Duration) error {
	if !f.Enabled() || interval <= 0 {
		slog.Info("periodic sync disabled")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = f.Refresh(ctx)
		}
	}
}
