// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/harper/tally/internal/app"
	"github.com/harper/tally/internal/ui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps an MCP server around a coordinator. Tools drive the same
// terminal form and events a user would.
type Server struct {
	mcp   *mcp.Server
	coord *app.Coordinator
	term  *ui.Terminal

	// mu serializes tool calls; the coordinator handles one event at a time.
	mu sync.Mutex
}

// NewServer creates MCP server with all capabilities. coord must already be
// bound to term's events.
func NewServer(coord *app.Coordinator, term *ui.Terminal) (*Server, error) {
	if coord == nil || term == nil {
		return nil, fmt.Errorf("coordinator and terminal are required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "tally",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		coord: coord,
		term:  term,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
