package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// Ensure Orchestrator and ScanSession implement the interfaces.
var (
	_ driving.ScanOrchestrator = (*Orchestrator)(nil)
	_ driving.ScanSession      = (*ScanSession)(nil)
)

// historyAppender is the part of the history service a session writes to.
type historyAppender interface {
	Append(ctx context.Context, rawPayload string, now time.Time) (*domain.ScanRecord, error)
}

// SessionHooks receive the outcome of each accepted payload.
// Hooks run on the session goroutine and may call Stop.
type SessionHooks struct {
	// OnAppend is called after a record has been committed.
	OnAppend func(record domain.ScanRecord)

	// OnError is called when an append fails. The session keeps running;
	// retrying is left to the caller.
	OnError func(payload string, err error)
}

// Orchestrator wires detection sources through a debouncer into the
// history. At most one session runs at a time.
type Orchestrator struct {
	history historyAppender
	clock   clockwork.Clock
	window  time.Duration
	hooks   SessionHooks

	mu     sync.Mutex
	active *ScanSession
}

// NewOrchestrator creates an orchestrator. window is the debounce window
// applied to stream sources; a nil clock uses the real clock.
func NewOrchestrator(history historyAppender, clock clockwork.Clock, window time.Duration, hooks SessionHooks) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Orchestrator{
		history: history,
		clock:   clock,
		window:  window,
		hooks:   hooks,
	}
}

// Start begins a session over source. Stream sources are debounced;
// gallery sources are accepted unconditionally.
func (o *Orchestrator) Start(ctx context.Context, source driven.DetectionSource) (driving.ScanSession, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil {
		if !o.active.finished() {
			return nil, domain.ErrSessionActive
		}
		o.active.Stop()
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	events, err := source.Events(sessionCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("starting detection source: %w", err)
	}

	s := &ScanSession{
		history: o.history,
		clock:   o.clock,
		hooks:   o.hooks,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if source.Mode() == domain.SourceModeStream {
		s.debouncer = NewDebouncer(o.window)
	}
	o.active = s

	logger.Debug("scan: session started (%s)", source.Mode())
	go s.run(sessionCtx, events)
	return s, nil
}

// Stop ends the active session, if any.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	s := o.active
	o.active = nil
	o.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}

// ScanSession is the cancellation handle of one scanning session.
// It owns the session's debounce window.
type ScanSession struct {
	history historyAppender
	clock   clockwork.Clock
	hooks   SessionHooks
	cancel  context.CancelFunc
	done    chan struct{}

	// gate is held shared while a payload is being appended and
	// exclusively by Stop, so Stop waits for an in-flight append and
	// no append starts once stopped is set.
	gate      sync.RWMutex
	stopped   bool
	debouncer *Debouncer
	stopOnce  sync.Once
}

// Stop unsubscribes from the source and discards the debounce window.
// After Stop returns no further append is issued. Idempotent.
func (s *ScanSession) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.gate.Lock()
		s.stopped = true
		s.debouncer = nil
		s.gate.Unlock()
		logger.Debug("scan: session stopped")
	})
}

// Done is closed when the session goroutine exits.
func (s *ScanSession) Done() <-chan struct{} {
	return s.done
}

func (s *ScanSession) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *ScanSession) run(ctx context.Context, events <-chan string) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			s.handle(ctx, payload)
		}
	}
}

func (s *ScanSession) handle(ctx context.Context, payload string) {
	record, attempted, err := s.process(ctx, payload)
	if !attempted {
		return
	}
	if err != nil {
		// An append cut short by Stop is discarded silently.
		if ctx.Err() != nil {
			return
		}
		if s.hooks.OnError != nil {
			s.hooks.OnError(payload, err)
		}
		return
	}
	if s.hooks.OnAppend != nil {
		s.hooks.OnAppend(*record)
	}
}

// process debounces payload and appends it. attempted reports whether
// an append was issued.
func (s *ScanSession) process(ctx context.Context, payload string) (*domain.ScanRecord, bool, error) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	if s.stopped || ctx.Err() != nil {
		return nil, false, nil
	}

	now := s.clock.Now()
	if s.debouncer != nil && !s.debouncer.Accept(payload, now) {
		logger.Debug("scan: suppressed duplicate detection")
		return nil, false, nil
	}

	record, err := s.history.Append(ctx, payload, now)
	return record, true, err
}
