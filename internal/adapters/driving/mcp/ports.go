package mcp

import (
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// History reads and prunes the scan history.
	History driving.HistoryService

	// Connectivity reports network reachability. Optional.
	Connectivity driving.ConnectivityService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.History == nil {
		return ErrMissingHistoryService
	}
	return nil
}
