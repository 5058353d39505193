package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	historyView *history.View
	detailView  *detail.View
	statusBar   *status.Bar

	// Live subscriptions, opened by Init and released by Close.
	historyUpdates <-chan domain.HistorySnapshot
	connUpdates    <-chan domain.ConnectivityState
	gateUpdates    <-chan bool
	unsubscribe    []func()

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		historyView: history.NewView(s, km),
		detailView:  detail.NewView(s),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewHistory,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It opens the live subscriptions and starts listening on them.
func (a *App) Init() tea.Cmd {
	a.subscribe()

	cmds := []tea.Cmd{
		tea.SetWindowTitle("scanlog"),
		waitForHistory(a.historyUpdates),
	}
	if a.connUpdates != nil {
		cmds = append(cmds, waitForConnectivity(a.connUpdates))
	}
	if a.gateUpdates != nil {
		cmds = append(cmds, waitForGate(a.gateUpdates))
	}
	return tea.Batch(cmds...)
}

func (a *App) subscribe() {
	if a.historyUpdates != nil {
		return
	}
	updates, cancel := a.ports.History.Subscribe()
	a.historyUpdates = updates
	a.unsubscribe = append(a.unsubscribe, cancel)

	if a.ports.Connectivity != nil {
		updates, cancel := a.ports.Connectivity.Subscribe()
		a.connUpdates = updates
		a.unsubscribe = append(a.unsubscribe, cancel)
	}
	if a.ports.Gate != nil {
		updates, cancel := a.ports.Gate.Subscribe()
		a.gateUpdates = updates
		a.unsubscribe = append(a.unsubscribe, cancel)
	}
}

// Close releases the live subscriptions.
func (a *App) Close() {
	for _, cancel := range a.unsubscribe {
		cancel()
	}
	a.unsubscribe = nil
}

func waitForHistory(ch <-chan domain.HistorySnapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return messages.HistoryUpdated{Snapshot: snapshot}
	}
}

func waitForConnectivity(ch <-chan domain.ConnectivityState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return messages.ConnectivityChanged{State: state}
	}
}

func waitForGate(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		enabled, ok := <-ch
		if !ok {
			return nil
		}
		return messages.GateChanged{Enabled: enabled}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.statusBar.ClearMessage()

		switch a.currentView {
		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		case messages.ViewDetail:
			a.detailView, cmd = a.detailView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewHistory
			}
		}
		return a, cmd

	case messages.HistoryUpdated:
		a.statusBar.SetRecordCount(msg.Snapshot.Len())
		a.historyView, _ = a.historyView.Update(msg)
		if a.currentView == messages.ViewDetail {
			a.detailView, cmd = a.detailView.Update(msg)
		}
		return a, tea.Batch(cmd, waitForHistory(a.historyUpdates))

	case messages.ConnectivityChanged:
		a.statusBar.SetConnectivity(msg.State)
		return a, waitForConnectivity(a.connUpdates)

	case messages.GateChanged:
		a.statusBar.SetFeatures(msg.Enabled)
		return a, waitForGate(a.gateUpdates)

	case messages.RecordSelected:
		a.detailView.SetRecord(msg.Record)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.RemoveRequested:
		return a, a.removeRecord(msg.ID)

	case messages.RecordRemoved:
		switch {
		case msg.Err != nil:
			a.err = msg.Err
			a.statusBar.SetError(msg.Err)
		case msg.Removed:
			a.statusBar.SetMessage("Removed " + msg.ID)
			if a.currentView == messages.ViewDetail {
				a.currentView = messages.ViewHistory
			}
		default:
			a.statusBar.SetMessage("Already removed")
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// removeRecord removes id through the history service.
func (a *App) removeRecord(id string) tea.Cmd {
	ctx := a.ctx
	h := a.ports.History
	return func() tea.Msg {
		removed, err := h.Remove(ctx, id)
		return messages.RecordRemoved{ID: id, Removed: removed, Err: err}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.historyView.View()
	}

	// Pin the status bar to the bottom.
	gap := a.height - strings.Count(body, "\n") - 2
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

History:
  j/k, ↑/↓    Navigate scans
  enter       Show details
  /           Filter (text, or type:url, type:wifi ...)
  d d         Remove the selected scan
  esc         Clear the filter
  q           Quit

Details:
  d           Remove this scan
  esc         Back

[esc] back`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.historyView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	if _, err := p.Run(); err != nil && a.ctx.Err() == nil {
		return err
	}
	return nil
}
