package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for scanlog resources.
	uriScheme = "scanlog://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the whole history.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "All scanned codes, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for a single record.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{recordId}",
		Name:        "history-record",
		Description: "A single scanned code",
		MIMEType:    "application/json",
	}, s.handleRecordResource)
}

// handleHistoryResource returns the full history.
func (s *Server) handleHistoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snapshot := s.ports.History.Snapshot()

	records := make([]RecordOutput, len(snapshot.Records))
	for i := range snapshot.Records {
		records[i] = toRecordOutput(snapshot.Records[i])
	}

	return jsonResult(req.Params.URI, records)
}

// handleRecordResource returns a single record.
func (s *Server) handleRecordResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract recordId from URI: scanlog://history/{recordId}
	id := extractRecordID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.History.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting record: %w", err)
	}

	return jsonResult(req.Params.URI, toRecordOutput(*record))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRecordID extracts the record ID from a URI like scanlog://history/{recordId}.
func extractRecordID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
