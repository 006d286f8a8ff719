// Package mcp exposes the triage service as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
)

// Triager is the part of the triage service the tools need.
type Triager interface {
	Triage(ctx context.Context, image *domain.ImageInput) (*domain.TriageResult, error)
	StrategyOverview() *domain.StrategyOverview
}

// Server wraps an MCP SDK server with the triage tools registered.
type Server struct {
	mcpServer *mcp.Server
	triager   Triager
	logger    *logrus.Logger
	maxBytes  int64
}

// NewServer creates a new MCP server instance. maxImageBytes bounds the
// decoded image size; zero disables the check.
func NewServer(cfg domain.MCPConfig, triager Triager, logger *logrus.Logger, maxImageBytes int64) *Server {
	name := cfg.ServerName
	if name == "" {
		name = "injury-triage"
	}
	version := cfg.ServerVersion
	if version == "" {
		version = "1.0.0"
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		triager:   triager,
		logger:    logger,
		maxBytes:  maxImageBytes,
	}
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        triageImageTool,
		Description: "Classify an injury photograph and return the triage category, required specialty and hospital ranking strategy.",
	}, s.handleTriageImage)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        rankingStrategiesTool,
		Description: "Return the ranking strategy table, the injury-to-specialty map and the routing rule for bleeding and non-bleeding cases.",
	}, s.handleRankingStrategies)

	s.logger.WithField("tool_count", 2).Debug("Registered MCP tools")
}

// Run serves MCP over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting injury triage MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// SDKServer returns the underlying SDK server, used to attach other transports.
func (s *Server) SDKServer() *mcp.Server {
	return s.mcpServer
}
