package tui

import (
	"context"
	"errors"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
)

var (
	_ driving.HistoryService      = (*MockHistoryService)(nil)
	_ driving.ConnectivityService = (*MockConnectivityService)(nil)
	_ driving.FeatureGate         = (*MockFeatureGate)(nil)
)

// MockHistoryService is a mock implementation of driving.HistoryService.
type MockHistoryService struct {
	Records     []domain.ScanRecord
	RemoveErr   error
	Updates     chan domain.HistorySnapshot
	Unsubscribe int
}

func (m *MockHistoryService) Snapshot() domain.HistorySnapshot {
	return domain.HistorySnapshot{Records: m.Records}
}

func (m *MockHistoryService) Get(id string) (*domain.ScanRecord, error) {
	if r, ok := m.Snapshot().Find(id); ok {
		return &r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockHistoryService) Remove(_ context.Context, id string) (bool, error) {
	if m.RemoveErr != nil {
		return false, m.RemoveErr
	}
	for i := range m.Records {
		if m.Records[i].ID == id {
			m.Records = append(m.Records[:i], m.Records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockHistoryService) Clear(_ context.Context) error {
	return errors.New("not supported")
}

func (m *MockHistoryService) Subscribe() (<-chan domain.HistorySnapshot, func()) {
	if m.Updates == nil {
		m.Updates = make(chan domain.HistorySnapshot, 4)
	}
	m.Updates <- m.Snapshot()
	return m.Updates, func() { m.Unsubscribe++ }
}

// MockConnectivityService is a mock implementation of driving.ConnectivityService.
type MockConnectivityService struct {
	Current domain.ConnectivityState
}

func (m *MockConnectivityService) Check(_ context.Context) domain.ConnectivityState {
	return m.Current
}

func (m *MockConnectivityService) State() domain.ConnectivityState {
	return m.Current
}

func (m *MockConnectivityService) Subscribe() (<-chan domain.ConnectivityState, func()) {
	ch := make(chan domain.ConnectivityState, 1)
	ch <- m.Current
	return ch, func() {}
}

// MockFeatureGate is a mock implementation of driving.FeatureGate.
type MockFeatureGate struct {
	On bool
}

func (m *MockFeatureGate) Enabled() bool {
	return m.On
}

func (m *MockFeatureGate) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	ch <- m.On
	return ch, func() {}
}
