// Package mcpserver exposes registered projects and their annotations to
// AI agents over the Model Context Protocol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Config carries the scan settings the tools use when walking a project.
type Config struct {
	Include     []string
	Exclude     []string
	MaxFileSize int64
	Concurrency int
}

// Server wraps an MCP server that exposes annotation-reading tools.
type Server struct {
	store *registry.Store
	cfg   Config
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(store *registry.Store, cfg Config) *Server {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	s := &Server{
		store: store,
		cfg:   cfg,
	}

	s.mcp = server.NewMCPServer(
		"codewalk",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listProjectsTool, s.handleListProjects)
	s.mcp.AddTool(listAnnotatedFilesTool, s.handleListAnnotatedFiles)
	s.mcp.AddTool(readAnnotationsTool, s.handleReadAnnotations)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
