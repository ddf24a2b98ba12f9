package mcptools

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/danielpatrickdp/fuzzy-controller/internal/eval"
	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
)

// InferTool handles the fuzzy_infer MCP tool.
type InferTool struct {
	reg     *registry.Registry
	db      *sql.DB
	harness *eval.EvalHarness
}

// NewInferTool creates an InferTool. db may be nil to skip the run log.
func NewInferTool(reg *registry.Registry, db *sql.DB) *InferTool {
	return &InferTool{reg: reg, db: db, harness: eval.NewEvalHarness(eval.DefaultEvalConfig())}
}

// Definition returns the MCP tool definition for fuzzy_infer.
func (t *InferTool) Definition() mcp.Tool {
	return mcp.NewTool("fuzzy_infer",
		mcp.WithDescription(
			"Run a stored fuzzy inference system on crisp input values and return one crisp value per output. "+
				"Inputs are positional, in the order the system declares its input variables.",
		),
		mcp.WithString("system",
			mcp.Required(),
			mcp.Description("System name, as listed by fuzzy_systems"),
		),
		mcp.WithArray("inputs",
			mcp.Required(),
			mcp.Description("One number per input variable"),
			mcp.Items(map[string]any{"type": "number"}),
		),
	)
}

// Handle processes the fuzzy_infer tool call.
func (t *InferTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	system := req.GetString("system", "")
	if system == "" {
		return mcp.NewToolResultError("'system' is required"), nil
	}
	inputs, err := floatsArg(req, "inputs")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := t.reg.Engine(system)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load system: %v", err)), nil
	}

	start := time.Now()
	res, inferErr := entry.Engine.InferDetailed(inputs)
	if t.db != nil {
		run := logging.RunEntry{
			SystemName:     system,
			VersionID:      entry.VersionID,
			Inputs:         inputs,
			Outputs:        res.Outputs,
			Strengths:      res.Strengths,
			DurationMicros: time.Since(start).Microseconds(),
		}
		if inferErr != nil {
			run.Error = inferErr.Error()
		}
		if _, err := logging.LogRun(t.db, run); err != nil {
			log.Printf("logging error: %v", err)
		}
	}
	if inferErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inference failed: %v", inferErr)), nil
	}

	var b strings.Builder
	for j, out := range entry.Engine.Outputs {
		fmt.Fprintf(&b, "%s = %.4f\n", out.Name, res.Outputs[j])
	}
	fmt.Fprintf(&b, "\neval: %s\n", t.harness.Run(entry.Engine, res).Reason)
	if entry.VersionID != "" {
		fmt.Fprintf(&b, "version: %s\n", entry.VersionID)
	}
	return mcp.NewToolResultText(b.String()), nil
}
