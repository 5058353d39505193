package httpapi

import (
	"context"
	"time"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
)

var (
	_ driving.HistoryService      = (*mockHistoryService)(nil)
	_ driving.ConnectivityService = (*mockConnectivityService)(nil)
	_ driving.FeatureGate         = (*mockFeatureGate)(nil)
)

type mockHistoryService struct {
	records []domain.ScanRecord
	err     error
	cleared bool
}

func (m *mockHistoryService) Snapshot() domain.HistorySnapshot {
	return domain.HistorySnapshot{Records: m.records}
}

func (m *mockHistoryService) Get(id string) (*domain.ScanRecord, error) {
	if r, ok := m.Snapshot().Find(id); ok {
		return &r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Remove(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.records = nil
	m.cleared = true
	return nil
}

func (m *mockHistoryService) Subscribe() (<-chan domain.HistorySnapshot, func()) {
	ch := make(chan domain.HistorySnapshot, 1)
	ch <- m.Snapshot()
	return ch, func() {}
}

type mockConnectivityService struct {
	state domain.ConnectivityState
}

func (m *mockConnectivityService) Check(_ context.Context) domain.ConnectivityState {
	return m.state
}

func (m *mockConnectivityService) State() domain.ConnectivityState {
	return m.state
}

func (m *mockConnectivityService) Subscribe() (<-chan domain.ConnectivityState, func()) {
	ch := make(chan domain.ConnectivityState, 1)
	ch <- m.state
	return ch, func() {}
}

type mockFeatureGate struct {
	enabled bool
}

func (m *mockFeatureGate) Enabled() bool {
	return m.enabled
}

func (m *mockFeatureGate) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	ch <- m.enabled
	return ch, func() {}
}

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleRecords() []domain.ScanRecord {
	return []domain.ScanRecord{
		{ID: "rec-2", RawPayload: "tel:+15551234567", ContentType: domain.ContentTypePhone, DisplayValue: "+15551234567", CreatedAt: testTime.Add(time.Second)},
		{ID: "rec-1", RawPayload: "https://example.com", ContentType: domain.ContentTypeURL, DisplayValue: "https://example.com", CreatedAt: testTime},
	}
}
