package presenter

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a typed search is applied.
const DefaultDebounce = 250 * time.Millisecond

// debouncer runs only the last function scheduled within its window.
type debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

func newDebouncer(d time.Duration) *debouncer {
	return &debouncer{duration: d}
}

func (d *debouncer) debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
