// Package tui provides a live terminal view of the scan history.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// History is watched and pruned.
	History driving.HistoryService

	// Connectivity drives the status bar. Optional.
	Connectivity driving.ConnectivityService

	// Gate reports whether the network-dependent features are available. Optional.
	Gate driving.FeatureGate
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.History == nil {
		return ErrMissingHistoryService
	}
	return nil
}
