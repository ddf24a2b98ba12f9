package mcptools

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/server"

	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
	"github.com/danielpatrickdp/fuzzy-controller/internal/validate"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer registers the fuzzy tools on a new MCP server.
// db carries the run log and may be nil.
func NewServer(reg *registry.Registry, st *store.Store, db *sql.DB) *server.MCPServer {
	s := server.NewMCPServer(
		"fuzzy-controller",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	inferTool := NewInferTool(reg, db)
	s.AddTool(inferTool.Definition(), inferTool.Handle)

	systemsTool := NewSystemsTool(reg)
	s.AddTool(systemsTool.Definition(), systemsTool.Handle)

	defineTool := NewDefineTool(st, validate.NewValidator(validate.DefaultConfig()))
	s.AddTool(defineTool.Definition(), defineTool.Handle)

	return s
}
