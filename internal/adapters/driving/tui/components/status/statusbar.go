// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// Bar displays connectivity, record count and keybinding hints.
type Bar struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	connectivity domain.ConnectivityState
	features     bool
	recordCount  int
	message      string
	isError      bool
	width        int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:       s,
		keymap:       km,
		connectivity: domain.ConnectivityUnknown,
		width:        80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders connectivity, feature state and the message.
func (s *Bar) renderLeft() string {
	parts := []string{
		s.styles.Connectivity(s.connectivity).Render(strings.ToLower(s.connectivity.String())),
	}
	if s.features {
		parts = append(parts, s.styles.Success.Render("features on"))
	} else {
		parts = append(parts, s.styles.Muted.Render("features off"))
	}
	parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d scans", s.recordCount)))

	if s.message != "" {
		if s.isError {
			parts = append(parts, s.styles.Error.Render("Error: "+s.message))
		} else {
			parts = append(parts, s.styles.Muted.Render(s.message))
		}
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetConnectivity sets the displayed connectivity state.
func (s *Bar) SetConnectivity(state domain.ConnectivityState) {
	s.connectivity = state
}

// Connectivity returns the displayed connectivity state.
func (s *Bar) Connectivity() domain.ConnectivityState {
	return s.connectivity
}

// SetFeatures sets whether the optional features are available.
func (s *Bar) SetFeatures(enabled bool) {
	s.features = enabled
}

// Features returns whether the optional features are shown as available.
func (s *Bar) Features() bool {
	return s.features
}

// SetRecordCount sets the record count.
func (s *Bar) SetRecordCount(count int) {
	s.recordCount = count
}

// RecordCount returns the current record count.
func (s *Bar) RecordCount() int {
	return s.recordCount
}

// SetMessage sets an informational message.
func (s *Bar) SetMessage(message string) {
	s.message = message
	s.isError = false
}

// SetError sets an error message.
func (s *Bar) SetError(err error) {
	if err == nil {
		s.ClearMessage()
		return
	}
	s.message = err.Error()
	s.isError = true
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// IsError reports whether the message is an error.
func (s *Bar) IsError() bool {
	return s.isError
}

// ClearMessage removes any message.
func (s *Bar) ClearMessage() {
	s.message = ""
	s.isError = false
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
