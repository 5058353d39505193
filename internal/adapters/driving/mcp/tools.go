package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// defaultListLimit caps history_list when no limit is given.
const defaultListLimit = 20

// HistoryListInput is the input schema for the history_list tool.
type HistoryListInput struct {
	Type  string `json:"type,omitempty" jsonschema:"only return records of this content type (URL, EMAIL, PHONE, WIFI_CREDENTIAL, PLAIN_TEXT)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of records to return, newest first (default 20)"`
}

// HistoryListOutput is the output schema for the history_list tool.
type HistoryListOutput struct {
	Records []RecordOutput `json:"records"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
}

// RecordOutput represents a single scan record.
type RecordOutput struct {
	ID           string `json:"id"`
	ContentType  string `json:"content_type"`
	DisplayValue string `json:"display_value"`
	RawPayload   string `json:"raw_payload"`
	CreatedAt    string `json:"created_at"`
}

// HistoryRemoveInput is the input schema for the history_remove tool.
type HistoryRemoveInput struct {
	ID string `json:"id" jsonschema:"the id of the scan record to remove"`
}

// HistoryRemoveOutput is the output schema for the history_remove tool.
type HistoryRemoveOutput struct {
	Removed bool `json:"removed"`
}

// ConnectivityInput is the (empty) input schema for the connectivity tool.
type ConnectivityInput struct{}

// ConnectivityOutput is the output schema for the connectivity tool.
type ConnectivityOutput struct {
	State string `json:"state"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history_list",
		Description: "List scanned codes, newest first",
	}, s.handleHistoryList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history_remove",
		Description: "Remove a scanned code from the history",
	}, s.handleHistoryRemove)

	if s.ports.Connectivity != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "connectivity",
			Description: "Check whether the network is reachable",
		}, s.handleConnectivity)
	}
}

// handleHistoryList handles the history_list tool invocation.
func (s *Server) handleHistoryList(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HistoryListInput,
) (*mcp.CallToolResult, HistoryListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var filter domain.ContentType
	if input.Type != "" {
		filter = domain.ContentType(strings.ToUpper(input.Type))
		if !filter.IsValid() {
			return nil, HistoryListOutput{}, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidInput, input.Type)
		}
	}

	snapshot := s.ports.History.Snapshot()
	output := HistoryListOutput{
		Records: []RecordOutput{},
		Total:   snapshot.Len(),
	}
	for i := range snapshot.Records {
		if len(output.Records) == limit {
			break
		}
		if filter != "" && snapshot.Records[i].ContentType != filter {
			continue
		}
		output.Records = append(output.Records, toRecordOutput(snapshot.Records[i]))
	}
	output.Count = len(output.Records)

	return nil, output, nil
}

// handleHistoryRemove handles the history_remove tool invocation.
func (s *Server) handleHistoryRemove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryRemoveInput,
) (*mcp.CallToolResult, HistoryRemoveOutput, error) {
	if input.ID == "" {
		return nil, HistoryRemoveOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}

	removed, err := s.ports.History.Remove(ctx, input.ID)
	if err != nil {
		return nil, HistoryRemoveOutput{}, err
	}
	return nil, HistoryRemoveOutput{Removed: removed}, nil
}

// handleConnectivity handles the connectivity tool invocation.
func (s *Server) handleConnectivity(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ConnectivityInput,
) (*mcp.CallToolResult, ConnectivityOutput, error) {
	state := s.ports.Connectivity.Check(ctx)
	return nil, ConnectivityOutput{State: state.String()}, nil
}

func toRecordOutput(r domain.ScanRecord) RecordOutput {
	return RecordOutput{
		ID:           r.ID,
		ContentType:  r.ContentType.String(),
		DisplayValue: r.DisplayValue,
		RawPayload:   r.RawPayload,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
