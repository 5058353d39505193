// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// HistoryUpdated carries a newly published history snapshot.
type HistoryUpdated struct {
	Snapshot domain.HistorySnapshot
}

// ConnectivityChanged carries a connectivity transition.
type ConnectivityChanged struct {
	State domain.ConnectivityState
}

// GateChanged carries a change of feature availability.
type GateChanged struct {
	Enabled bool
}

// RemoveRequested asks the app to remove a record.
type RemoveRequested struct {
	ID string
}

// RecordRemoved signals a remove completed.
type RecordRemoved struct {
	ID      string
	Removed bool
	Err     error
}

// RecordSelected is sent when a record is opened for detail.
type RecordSelected struct {
	Record domain.ScanRecord
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewHistory is the live history list.
	ViewHistory ViewType = iota
	// ViewDetail shows a single record.
	ViewDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewHistory:
		return "history"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
