package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/danielpatrickdp/fuzzy-controller/internal/registry"
)

// SystemsTool handles the fuzzy_systems MCP tool.
type SystemsTool struct {
	reg *registry.Registry
}

// NewSystemsTool creates a SystemsTool.
func NewSystemsTool(reg *registry.Registry) *SystemsTool {
	return &SystemsTool{reg: reg}
}

// Definition returns the MCP tool definition for fuzzy_systems.
func (t *SystemsTool) Definition() mcp.Tool {
	return mcp.NewTool("fuzzy_systems",
		mcp.WithDescription("List the fuzzy inference systems available to fuzzy_infer, with their input and output variables."),
	)
}

// Handle processes the fuzzy_systems tool call.
func (t *SystemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	systems, err := t.reg.Systems()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list systems: %v", err)), nil
	}
	if len(systems) == 0 {
		return mcp.NewToolResultText("No systems defined. Use fuzzy_define to add one."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d systems:\n\n", len(systems))
	for _, s := range systems {
		entry, err := t.reg.Engine(s.Name)
		if err != nil {
			fmt.Fprintf(&b, "- %s (unavailable: %v)\n", s.Name, err)
			continue
		}
		var ins, outs []string
		for _, v := range entry.Engine.Inputs {
			ins = append(ins, fmt.Sprintf("%s[%g, %g]", v.Name, v.Range.Low, v.Range.High))
		}
		for _, v := range entry.Engine.Outputs {
			outs = append(outs, v.Name)
		}
		fmt.Fprintf(&b, "- %s: inputs %s -> outputs %s, %d rules\n",
			s.Name, strings.Join(ins, ", "), strings.Join(outs, ", "), len(entry.Engine.Rules))
	}
	return mcp.NewToolResultText(b.String()), nil
}
