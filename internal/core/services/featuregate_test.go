package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

func TestFeatureGate_FollowsConnectivity(t *testing.T) {
	conn := newStubState()
	gate := NewFeatureGate(conn, true)
	gate.Start()
	defer gate.Stop()

	updates, cancel := gate.Subscribe()
	defer cancel()
	assert.False(t, receive(t, updates))

	conn.emit(domain.ConnectivityChecking)
	conn.emit(domain.ConnectivityOnline)
	assert.True(t, receive(t, updates))
	assert.True(t, gate.Enabled())

	conn.emit(domain.ConnectivityOffline)
	assert.False(t, receive(t, updates))
	assert.False(t, gate.Enabled())
}

func TestFeatureGate_PublishesOnlyChanges(t *testing.T) {
	conn := newStubState()
	gate := NewFeatureGate(conn, true)
	gate.Start()
	defer gate.Stop()

	updates, cancel := gate.Subscribe()
	defer cancel()
	receive(t, updates)

	conn.emit(domain.ConnectivityOnline)
	assert.True(t, receive(t, updates))

	// Only the ONLINE -> not-ONLINE edge is published.
	conn.emit(domain.ConnectivityOnline)
	conn.emit(domain.ConnectivityOffline)
	conn.emit(domain.ConnectivityChecking)
	conn.emit(domain.ConnectivityUnknown)
	assert.False(t, receive(t, updates))

	select {
	case v := <-updates:
		t.Fatalf("unexpected gate update %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeatureGate_Disallowed(t *testing.T) {
	conn := newStubState()
	gate := NewFeatureGate(conn, false)
	gate.Start()
	defer gate.Stop()

	conn.emit(domain.ConnectivityOnline)
	assert.Never(t, gate.Enabled, 50*time.Millisecond, 5*time.Millisecond)
}

func TestFeatureGate_WithProbe(t *testing.T) {
	reach := newMockReachability()
	probe, _ := newTestProbe(t, reach)
	gate := NewFeatureGate(probe, true)
	gate.Start()
	defer gate.Stop()

	assert.False(t, gate.Enabled())

	reach.answers <- true
	require.Equal(t, domain.ConnectivityOnline, probe.Check(context.Background()))
	require.Eventually(t, gate.Enabled, time.Second, 5*time.Millisecond)
}

func TestFeatureGate_Stop(t *testing.T) {
	conn := newStubState()
	gate := NewFeatureGate(conn, true)
	gate.Start()
	gate.Start()

	updates, cancel := gate.Subscribe()
	defer cancel()
	receive(t, updates)

	gate.Stop()
	gate.Stop()
	requireClosed(t, updates)
}
