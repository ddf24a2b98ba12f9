package main

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/mcptools"
	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

// #region main
// stdout carries the MCP protocol; log writes to stderr.
func main() {
	env := config.LoadEnv()

	st, err := store.NewStore(env.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	if err := logging.EnsureSchema(st.DB()); err != nil {
		log.Fatalf("failed to prepare run log: %v", err)
	}

	reg, err := registry.New(st, registry.Config{Size: env.CacheSize, Partitions: env.Partitions})
	if err != nil {
		log.Fatalf("failed to create registry: %v", err)
	}

	s := mcptools.NewServer(reg, st, st.DB())
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}

// #endregion main
