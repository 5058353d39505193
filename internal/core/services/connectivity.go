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

// Ensure ConnectivityProbe implements the interface.
var _ driving.ConnectivityService = (*ConnectivityProbe)(nil)

// ConnectivityProbe answers whether the network is reachable with a hard
// latency bound. Only the most recently initiated check may change the
// state; a superseded check is cancelled and its result discarded.
//
// The state only moves to CHECKING while it is still UNKNOWN. Later
// re-checks keep the previous definitive state until they resolve, so
// subscribers only see real transitions.
type ConnectivityProbe struct {
	reach   driven.Reachability
	clock   clockwork.Clock
	timeout time.Duration

	mu             sync.Mutex
	state          domain.ConnectivityState
	generation     uint64
	resolved       bool
	cancelInflight context.CancelFunc
	subs           *broadcaster[domain.ConnectivityState]

	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

// NewConnectivityProbe creates a probe. A nil reach makes every check
// resolve OFFLINE. A non-positive timeout uses the default.
func NewConnectivityProbe(reach driven.Reachability, clock clockwork.Clock, timeout time.Duration) *ConnectivityProbe {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	return &ConnectivityProbe{
		reach:   reach,
		clock:   clock,
		timeout: timeout,
		state:   domain.ConnectivityUnknown,
		subs:    newBroadcaster[domain.ConnectivityState](),
	}
}

// Check runs one bounded probe and returns its outcome. If no answer
// arrives within the timeout, or the probe fails, the result is OFFLINE.
// If a newer check or a live transition supersedes this one, its result is
// discarded and the current state is returned instead.
func (p *ConnectivityProbe) Check(ctx context.Context) domain.ConnectivityState {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	if p.cancelInflight != nil {
		p.cancelInflight()
	}
	probeCtx, cancel := context.WithCancel(ctx)
	p.cancelInflight = cancel
	if p.state == domain.ConnectivityUnknown {
		p.setStateLocked(domain.ConnectivityChecking)
	}
	p.mu.Unlock()
	defer cancel()

	result := p.probe(probeCtx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		logger.Debug("connectivity: discarding superseded check #%d (%s)", gen, result)
		return p.state
	}
	p.cancelInflight = nil
	p.resolved = true
	p.setStateLocked(result)
	return result
}

// probe waits for the reachability answer, the timeout or cancellation,
// whichever comes first. The reachability call is abandoned, not awaited.
func (p *ConnectivityProbe) probe(ctx context.Context) domain.ConnectivityState {
	if p.reach == nil {
		return domain.ConnectivityOffline
	}

	timer := p.clock.NewTimer(p.timeout)
	defer timer.Stop()

	answer := make(chan domain.ConnectivityState, 1)
	go func() {
		reachable, err := p.reach.Reachable(ctx)
		if err != nil {
			logger.Debug("connectivity: probe failed: %v", err)
			reachable = false
		}
		answer <- domain.StateFromReachable(reachable)
	}()

	select {
	case state := <-answer:
		return state
	case <-timer.Chan():
		logger.Info("connectivity: no answer within %s, treating as offline", p.timeout)
		return domain.ConnectivityOffline
	case <-ctx.Done():
		return domain.ConnectivityOffline
	}
}

// State returns the current authoritative state.
func (p *ConnectivityProbe) State() domain.ConnectivityState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe delivers the current state, then each transition.
func (p *ConnectivityProbe) Subscribe() (<-chan domain.ConnectivityState, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subs.subscribe(p.state)
}

// Start follows live reachability changes until Stop is called or ctx is
// cancelled. Changes observed before the first check resolves are ignored.
func (p *ConnectivityProbe) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reach == nil || p.watchCancel != nil {
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	changes, err := p.reach.Watch(watchCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("watching reachability: %w", err)
	}

	p.watchCancel = cancel
	p.watchDone = make(chan struct{})
	go p.follow(changes, p.watchDone)
	return nil
}

// Stop releases the live subscription, cancels any in-flight check and
// ends all state subscriptions. Safe to call repeatedly.
func (p *ConnectivityProbe) Stop() error {
	p.mu.Lock()
	cancel, done := p.watchCancel, p.watchDone
	p.watchCancel, p.watchDone = nil, nil
	if p.cancelInflight != nil {
		p.cancelInflight()
		p.cancelInflight = nil
	}
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	p.subs.close()
	return nil
}

func (p *ConnectivityProbe) follow(changes <-chan bool, done chan struct{}) {
	defer close(done)
	for reachable := range changes {
		p.mu.Lock()
		if !p.resolved {
			p.mu.Unlock()
			continue
		}
		// A live transition is newer than any check still in flight.
		p.generation++
		if p.cancelInflight != nil {
			p.cancelInflight()
			p.cancelInflight = nil
		}
		p.setStateLocked(domain.StateFromReachable(reachable))
		p.mu.Unlock()
	}
}

// setStateLocked publishes state if it differs from the current one.
func (p *ConnectivityProbe) setStateLocked(state domain.ConnectivityState) {
	if state == p.state {
		return
	}
	logger.Debug("connectivity: %s -> %s", p.state, state)
	p.state = state
	p.subs.publish(state)
}
