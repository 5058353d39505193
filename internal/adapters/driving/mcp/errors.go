// Package mcp provides an MCP (Model Context Protocol) server adapter for scanlog.
// It lets AI assistants read and prune the local scan history.
package mcp

import "errors"

// ErrMissingHistoryService is returned when the history service is not provided.
var ErrMissingHistoryService = errors.New("mcp: history service is required")
