package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
)

var (
	_ driving.HistoryService      = (*mockHistoryService)(nil)
	_ driving.ConnectivityService = (*mockConnectivityService)(nil)
)

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records   []domain.ScanRecord
	removeErr error
	removed   []string
}

func (m *mockHistoryService) Snapshot() domain.HistorySnapshot {
	return domain.HistorySnapshot{Records: m.records}
}

func (m *mockHistoryService) Get(id string) (*domain.ScanRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			r := m.records[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Remove(_ context.Context, id string) (bool, error) {
	if m.removeErr != nil {
		return false, m.removeErr
	}
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			m.removed = append(m.removed, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	m.records = nil
	return nil
}

func (m *mockHistoryService) Subscribe() (<-chan domain.HistorySnapshot, func()) {
	ch := make(chan domain.HistorySnapshot, 1)
	ch <- m.Snapshot()
	return ch, func() {}
}

// mockConnectivityService is a mock implementation of driving.ConnectivityService.
type mockConnectivityService struct {
	state  domain.ConnectivityState
	checks int
}

func (m *mockConnectivityService) Check(_ context.Context) domain.ConnectivityState {
	m.checks++
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

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleRecords() []domain.ScanRecord {
	return []domain.ScanRecord{
		{ID: "rec-3", RawPayload: "mailto:ana@example.com", ContentType: domain.ContentTypeEmail, DisplayValue: "ana@example.com", CreatedAt: testTime.Add(2 * time.Second)},
		{ID: "rec-2", RawPayload: "https://example.com", ContentType: domain.ContentTypeURL, DisplayValue: "https://example.com", CreatedAt: testTime.Add(time.Second)},
		{ID: "rec-1", RawPayload: "hello", ContentType: domain.ContentTypePlainText, DisplayValue: "hello", CreatedAt: testTime},
	}
}
