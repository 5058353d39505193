package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

var errDiskFull = errors.New("disk full")

// mockPersistence is an in-memory PersistenceAdapter with failure injection.
type mockPersistence struct {
	mu       sync.Mutex
	data     map[string][]byte
	writes   int
	reads    int
	writeErr error
	readErr  error

	// When non-nil, every Write signals writeStarted and then blocks
	// until release is closed.
	writeStarted chan struct{}
	release      chan struct{}
}

func newMockPersistence() *mockPersistence {
	return &mockPersistence{data: make(map[string][]byte)}
}

func (m *mockPersistence) Write(ctx context.Context, key string, data []byte) error {
	if m.release != nil {
		m.writeStarted <- struct{}{}
		select {
		case <-m.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *mockPersistence) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *mockPersistence) setWriteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *mockPersistence) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *mockPersistence) stored(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// mockReachability answers Reachable from a channel so tests control when,
// and whether, each probe returns.
type mockReachability struct {
	answers  chan bool
	err      error
	changes  chan bool
	watchErr error

	mu       sync.Mutex
	calls    int
	returned int
}

func newMockReachability() *mockReachability {
	return &mockReachability{
		answers: make(chan bool, 8),
		changes: make(chan bool),
	}
}

func (m *mockReachability) Reachable(ctx context.Context) (bool, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.returned++
		m.mu.Unlock()
	}()
	if m.err != nil {
		return false, m.err
	}
	select {
	case v := <-m.answers:
		return v, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (m *mockReachability) Watch(ctx context.Context) (<-chan bool, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	out := make(chan bool)
	go func() {
		defer close(out)
		for {
			select {
			case v := <-m.changes:
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (m *mockReachability) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockReachability) returnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.returned
}

// chanSource is a DetectionSource fed by the test.
type chanSource struct {
	mode   domain.SourceMode
	events chan string
	err    error
}

func newChanSource(mode domain.SourceMode) *chanSource {
	return &chanSource{mode: mode, events: make(chan string)}
}

func (s *chanSource) Mode() domain.SourceMode {
	return s.mode
}

func (s *chanSource) Events(ctx context.Context) (<-chan string, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case p, ok := <-s.events:
				if !ok {
					return
				}
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// stubState is a fixed connectivity source for the feature gate.
type stubState struct {
	b *broadcaster[domain.ConnectivityState]
}

func newStubState() *stubState {
	return &stubState{b: newBroadcaster[domain.ConnectivityState]()}
}

func (s *stubState) Subscribe() (<-chan domain.ConnectivityState, func()) {
	return s.b.subscribe(domain.ConnectivityUnknown)
}

func (s *stubState) emit(state domain.ConnectivityState) {
	s.b.publish(state)
}
