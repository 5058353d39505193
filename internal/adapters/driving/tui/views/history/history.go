// Package history provides the live history view for the TUI.
package history

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// View lists the scan history, newest first, with an optional filter.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	list   *list.RecordList
	filter *input.FilterInput

	snapshot domain.HistorySnapshot

	// confirmID is the record awaiting a second remove keypress.
	confirmID string

	width  int
	height int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		list:   list.NewRecordList(s),
		filter: input.NewFilterInput(s),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSnapshot replaces the displayed history.
func (v *View) SetSnapshot(snapshot domain.HistorySnapshot) {
	v.snapshot = snapshot
	v.refresh()
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.HistoryUpdated:
		v.SetSnapshot(msg.Snapshot)
		return v, nil

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.handleFilterKey(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filter.Blur()
		return v, nil
	case tea.KeyEsc:
		v.filter.Reset()
		v.filter.Blur()
		v.refresh()
		return v, nil
	default:
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		v.refresh()
		return v, cmd
	}
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if !keymap.Matches(keyStr, v.keymap.Remove) {
		v.confirmID = ""
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Filter):
		return v, v.filter.Focus()

	case keymap.Matches(keyStr, v.keymap.Back):
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.refresh()
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Select):
		record := v.list.SelectedRecord()
		if record == nil {
			return v, nil
		}
		selected := *record
		return v, func() tea.Msg { return messages.RecordSelected{Record: selected} }

	case keymap.Matches(keyStr, v.keymap.Remove):
		record := v.list.SelectedRecord()
		if record == nil {
			return v, nil
		}
		// Removing takes two presses on the same record.
		if v.confirmID != record.ID {
			v.confirmID = record.ID
			return v, nil
		}
		v.confirmID = ""
		id := record.ID
		return v, func() tea.Msg { return messages.RemoveRequested{ID: id} }

	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }

	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// refresh reapplies the filter to the current snapshot.
func (v *View) refresh() {
	v.list.SetRecords(v.filter.Apply(v.snapshot.Records))
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	title := "Scan History"
	if v.list.Count() != v.snapshot.Len() {
		title = fmt.Sprintf("Scan History (%d of %d)", v.list.Count(), v.snapshot.Len())
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.list.View())

	if v.confirmID != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Warning.Render("Press d again to remove this scan"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Title, filter, spacing and status bar.
	v.list.SetDimensions(width, height-5)
	v.filter.SetWidth(width)
}

// SelectedRecord returns the selected record, or nil.
func (v *View) SelectedRecord() *domain.ScanRecord {
	return v.list.SelectedRecord()
}

// Records returns the records currently listed.
func (v *View) Records() []domain.ScanRecord {
	return v.list.Records()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// PendingRemove returns the ID awaiting remove confirmation.
func (v *View) PendingRemove() string {
	return v.confirmID
}
