package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/erazemk/neuanfang/internal/model"
)

type fakeSource struct {
	mu      sync.Mutex
	rooms   []model.Room
	loadErr error
	synced  time.Time
}

func (s *fakeSource) LoadTree(context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms, s.loadErr
}

func (s *fakeSource) MarkSynced(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced = at
	return nil
}

func (s *fakeSource) LastSyncedAt(context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced, nil
}

type countingRemote struct {
	pushes  atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (r *countingRemote) Push(ctx context.Context, _ Document) error {
	if r.pushes.Add(1) == 1 && r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func sampleRooms() []model.Room {
	return []model.Room{
		{ID: "r1", Name: "Küche", Type: model.RoomKitchen, Boxes: []model.Box{
			{ID: "b1", RoomID: "r1", Name: "Geschirr", IsPacked: true},
			{ID: "b2", RoomID: "r1", Name: "Töpfe"},
		}},
		{ID: "r2", Name: "Bad", Type: model.RoomBathroom},
	}
}

func TestRefreshPushesSnapshot(t *testing.T) {
	var got Document
	var auth, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	src := &fakeSource{rooms: sampleRooms()}
	f := New(src, NewHTTPRemote(HTTPConfig{URL: srv.URL + "/backup", Token: "secret", Timeout: time.Second}))

	var seen []Status
	f.Subscribe(func(st State) { seen = append(seen, st.Status) })

	require.NoError(t, f.Refresh(context.Background()))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, DocumentVersion, got.Version)
	assert.Len(t, got.Rooms, 2)
	assert.Equal(t, 2, got.Stats.TotalBoxes)
	assert.Equal(t, 1, got.Stats.PackedBoxes)

	st := f.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Empty(t, st.LastError)
	assert.False(t, st.LastSuccess.IsZero())
	assert.Equal(t, st.LastSuccess, src.synced)
	assert.Equal(t, []Status{StatusSyncing, StatusSuccess}, seen)
}

func TestRefreshFailureReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := &fakeSource{rooms: sampleRooms()}
	f := New(src, NewHTTPRemote(HTTPConfig{URL: srv.URL, Timeout: time.Second}))

	err := f.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	st := f.State()
	assert.Equal(t, StatusFailure, st.Status)
	assert.NotEmpty(t, st.LastError)
	assert.True(t, src.synced.IsZero(), "failed sync must not be recorded")
}

func TestRefreshSourceFailure(t *testing.T) {
	remote := &countingRemote{}
	f := New(&fakeSource{loadErr: errors.New("disk on fire")}, remote)

	err := f.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailure, f.State().Status)
	assert.Zero(t, remote.pushes.Load())
}

func TestRefreshDisabled(t *testing.T) {
	f := New(&fakeSource{}, nil)

	assert.False(t, f.Enabled())
	assert.ErrorIs(t, f.Refresh(context.Background()), ErrDisabled)
	assert.Equal(t, StatusIdle, f.State().Status)
}

func TestConcurrentRefreshShareOneRun(t *testing.T) {
	remote := &countingRemote{started: make(chan struct{}), release: make(chan struct{})}
	f := New(&fakeSource{rooms: sampleRooms()}, remote)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.Refresh(context.Background())
	}()
	<-remote.started

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Refresh(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(remote.release)
	wg.Wait()

	assert.Equal(t, int32(1), remote.pushes.Load())
	assert.Equal(t, StatusSuccess, f.State().Status)
}

func TestCancelledCallerDoesNotAbortSharedRun(t *testing.T) {
	remote := &countingRemote{started: make(chan struct{}), release: make(chan struct{})}
	f := New(&fakeSource{rooms: sampleRooms()}, remote)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- f.Refresh(ctx) }()
	<-remote.started

	second := make(chan error, 1)
	go func() { second <- f.Refresh(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	assert.Equal(t, StatusSyncing, f.State().Status)

	close(remote.release)
	require.NoError(t, <-second)
	assert.Equal(t, int32(1), remote.pushes.Load())
	assert.Equal(t, StatusSuccess, f.State().Status)
}

func TestUnsubscribe(t *testing.T) {
	f := New(&fakeSource{}, &countingRemote{})

	var calls int
	unsubscribe := f.Subscribe(func(State) { calls++ })
	require.NoError(t, f.Refresh(context.Background()))
	unsubscribe()
	require.NoError(t, f.Refresh(context.Background()))

	assert.Equal(t, 2, calls)
}

func TestRestore(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f := New(&fakeSource{synced: at}, &countingRemote{})

	require.NoError(t, f.Restore(context.Background()))
	assert.Equal(t, at, f.State().LastSuccess)
	assert.Equal(t, StatusIdle, f.State().Status)
}

func TestRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	remote := &countingRemote{}
	f := New(&fakeSource{rooms: sampleRooms()}, remote)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool { return remote.pushes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDisabledReturnsImmediately(t *testing.T) {
	f := New(&fakeSource{}, Disabled{})
	assert.NoError(t, f.Run(context.Background(), time.Millisecond))
}
