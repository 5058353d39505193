package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// Debouncer suppresses repeated detections of the same payload from a
// continuous stream. It holds the debounce window of one scanning session.
type Debouncer struct {
	window time.Duration

	mu          sync.Mutex
	hasAccepted bool
	lastPayload string
	lastAt      time.Time
}

// NewDebouncer creates a debouncer. A non-positive window uses the default.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = domain.DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Window returns the configured debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Accept reports whether payload observed at now should propagate.
// A payload is accepted if nothing was accepted before, if it differs from
// the last accepted payload, or if more than the window has elapsed since
// that payload was accepted. Accepting updates the window state.
func (d *Debouncer) Accept(payload string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hasAccepted && payload == d.lastPayload && now.Sub(d.lastAt) <= d.window {
		return false
	}

	d.hasAccepted = true
	d.lastPayload = payload
	d.lastAt = now
	return true
}

// Reset forgets the last accepted payload.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hasAccepted = false
	d.lastPayload = ""
	d.lastAt = time.Time{}
}
