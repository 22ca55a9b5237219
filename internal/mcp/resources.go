// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of the collection for AI agents

package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ItemsURI is the resource URI for the whole collection.
const ItemsURI = "tally://items"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        ItemsURI,
		Description: "All tracked items with the running total",
		URI:         ItemsURI,
		MIMEType:    "application/json",
	}, s.handleItemsResource)
}

func (s *Server) handleItemsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	output := s.listOutput()
	s.mu.Unlock()

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      ItemsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
