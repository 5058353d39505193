package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

func sampleRecords() []domain.ScanRecord {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return []domain.ScanRecord{
		{ID: "rec-2", RawPayload: "https://example.com", ContentType: domain.ContentTypeURL, DisplayValue: "https://example.com", CreatedAt: now},
		{ID: "rec-1", RawPayload: "hello", ContentType: domain.ContentTypePlainText, DisplayValue: "hello", CreatedAt: now},
	}
}

func newTestApp(t *testing.T) (*App, *MockHistoryService) {
	t.Helper()
	history := &MockHistoryService{Records: sampleRecords()}
	app, err := NewApp(&Ports{
		History:      history,
		Connectivity: &MockConnectivityService{Current: domain.ConnectivityOnline},
		Gate:         &MockFeatureGate{On: true},
	})
	require.NoError(t, err)
	app.SetDimensions(160, 30)
	return app, history
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{History: &MockHistoryService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewHistory, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingHistoryService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(&Ports{History: &MockHistoryService{}})

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_View_BeforeReady(t *testing.T) {
	app, _ := NewApp(&Ports{History: &MockHistoryService{}})

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_InitSubscribes(t *testing.T) {
	app, history := newTestApp(t)

	cmd := app.Init()
	require.NotNil(t, cmd)
	require.NotNil(t, app.historyUpdates)
	require.NotNil(t, app.connUpdates)
	require.NotNil(t, app.gateUpdates)

	// The first delivery is the current snapshot.
	msg := waitForHistory(app.historyUpdates)()
	updated, ok := msg.(messages.HistoryUpdated)
	require.True(t, ok)
	assert.Equal(t, 2, updated.Snapshot.Len())

	// Init twice does not subscribe twice.
	app.Init()
	assert.Len(t, app.unsubscribe, 3)

	app.Close()
	assert.Equal(t, 1, history.Unsubscribe)
	assert.Empty(t, app.unsubscribe)
}

func TestApp_WaitForClosedChannel(t *testing.T) {
	ch := make(chan domain.HistorySnapshot)
	close(ch)

	assert.Nil(t, waitForHistory(ch)())
	assert.Nil(t, waitForHistory(nil))
	assert.Nil(t, waitForConnectivity(nil))
	assert.Nil(t, waitForGate(nil))
}

func TestApp_Update_HistoryUpdated(t *testing.T) {
	app, _ := newTestApp(t)
	app.Init()

	_, cmd := app.Update(messages.HistoryUpdated{Snapshot: domain.HistorySnapshot{Records: sampleRecords()}})

	assert.NotNil(t, cmd)
	assert.Equal(t, 2, app.statusBar.RecordCount())
	assert.Contains(t, app.View(), "https://example.com")
}

func TestApp_Update_ConnectivityAndGate(t *testing.T) {
	app, _ := newTestApp(t)
	app.Init()

	app.Update(messages.ConnectivityChanged{State: domain.ConnectivityOffline})
	app.Update(messages.GateChanged{Enabled: false})

	assert.Equal(t, domain.ConnectivityOffline, app.statusBar.Connectivity())
	assert.False(t, app.statusBar.Features())
	assert.Contains(t, app.View(), "offline")
}

func TestApp_SelectAndBack(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.HistoryUpdated{Snapshot: domain.HistorySnapshot{Records: sampleRecords()}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewDetail, app.CurrentView())
	assert.Contains(t, app.View(), "Scan Details")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewHistory, app.CurrentView())
}

func TestApp_Remove(t *testing.T) {
	app, history := newTestApp(t)
	app.Update(messages.HistoryUpdated{Snapshot: history.Snapshot()})

	_, cmd := app.Update(messages.RemoveRequested{ID: "rec-2"})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.RecordRemoved{ID: "rec-2", Removed: true}, msg)

	app.Update(msg)
	assert.Len(t, history.Records, 1)
	assert.Equal(t, "Removed rec-2", app.statusBar.Message())
}

func TestApp_RemoveFromDetailReturnsToHistory(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.RecordSelected{Record: sampleRecords()[0]})
	require.Equal(t, messages.ViewDetail, app.CurrentView())

	app.Update(messages.RecordRemoved{ID: "rec-2", Removed: true})

	assert.Equal(t, messages.ViewHistory, app.CurrentView())
}

func TestApp_RemoveFailure(t *testing.T) {
	app, history := newTestApp(t)
	history.RemoveErr = &domain.PersistenceError{Op: "write", Key: "history", Err: errors.New("disk full")}

	_, cmd := app.Update(messages.RemoveRequested{ID: "rec-1"})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrPersistence)
	assert.True(t, app.statusBar.IsError())
	assert.Len(t, history.Records, 2)
}

func TestApp_RemoveAbsent(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.RecordRemoved{ID: "gone"})

	assert.Equal(t, "Already removed", app.statusBar.Message())
}

func TestApp_Help(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(runes("?"))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Filter")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewHistory, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "Error: boom")
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(&Ports{History: &MockHistoryService{}})

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.True(t, app.Ready())
	assert.Equal(t, 80, app.statusBar.Width())
}
