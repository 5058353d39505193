package services

import (
	"sync"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
)

// Ensure FeatureGate implements the interface.
var _ driving.FeatureGate = (*FeatureGate)(nil)

// connectivitySubscriber is the part of the connectivity service the gate needs.
type connectivitySubscriber interface {
	Subscribe() (<-chan domain.ConnectivityState, func())
}

// FeatureGate maps connectivity to "optional features may activate".
// Only ONLINE opens the gate. The value is republished only when it
// changes, so it never toggles faster than connectivity does.
type FeatureGate struct {
	conn    connectivitySubscriber
	allowed bool

	mu          sync.Mutex
	enabled     bool
	subs        *broadcaster[bool]
	unsubscribe func()
	done        chan struct{}
}

// NewFeatureGate creates a gate over conn. When allowed is false the gate
// stays closed regardless of connectivity.
func NewFeatureGate(conn connectivitySubscriber, allowed bool) *FeatureGate {
	return &FeatureGate{
		conn:    conn,
		allowed: allowed,
		subs:    newBroadcaster[bool](),
	}
}

// Start begins following connectivity transitions. Safe to call repeatedly.
func (g *FeatureGate) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unsubscribe != nil {
		return
	}
	states, unsubscribe := g.conn.Subscribe()
	g.unsubscribe = unsubscribe
	g.done = make(chan struct{})
	go g.follow(states, g.done)
}

// Stop ends the connectivity subscription and all gate subscriptions.
func (g *FeatureGate) Stop() {
	g.mu.Lock()
	unsubscribe, done := g.unsubscribe, g.done
	g.unsubscribe, g.done = nil, nil
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
		<-done
	}
	g.subs.close()
}

// Enabled returns the current gate value.
func (g *FeatureGate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Subscribe delivers the current value, then each change.
func (g *FeatureGate) Subscribe() (<-chan bool, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.subs.subscribe(g.enabled)
}

func (g *FeatureGate) follow(states <-chan domain.ConnectivityState, done chan struct{}) {
	defer close(done)
	for state := range states {
		g.set(g.allowed && state.AllowsFeatures())
	}
}

func (g *FeatureGate) set(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if enabled == g.enabled {
		return
	}
	g.enabled = enabled
	g.subs.publish(enabled)
}
