package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
	"github.com/danielpatrickdp/fuzzy-controller/internal/validate"
)

// DefineTool handles the fuzzy_define MCP tool.
type DefineTool struct {
	store     *store.Store
	validator *validate.Validator
}

// NewDefineTool creates a DefineTool.
func NewDefineTool(st *store.Store, v *validate.Validator) *DefineTool {
	return &DefineTool{store: st, validator: v}
}

// Definition returns the MCP tool definition for fuzzy_define.
func (t *DefineTool) Definition() mcp.Tool {
	return mcp.NewTool("fuzzy_define",
		mcp.WithDescription(
			"Store a new version of a fuzzy inference system from a YAML definition and make it active. "+
				"The definition lists inputs and outputs (name, range [low, high], terms with type "+
				"triangle|trapeze|gauss|sigma|singleton and params) and rules, either positional "+
				"(conditions/conclusions, ~ for don't-care) or keyed (if/then maps), with optional connective and weight.",
		),
		mcp.WithString("definition",
			mcp.Required(),
			mcp.Description("YAML system definition"),
		),
		mcp.WithString("name",
			mcp.Description("System name (default: the name declared in the definition)"),
		),
	)
}

// Handle processes the fuzzy_define tool call.
func (t *DefineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	definition := req.GetString("definition", "")
	if definition == "" {
		return mcp.NewToolResultError("'definition' is required"), nil
	}
	name := req.GetString("name", "")

	sf, err := config.ParseSystem([]byte(definition))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := sf.Build()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build system: %v", err)), nil
	}
	rep := t.validator.Check(e)
	if !rep.Passed {
		return mcp.NewToolResultError(formatIssues("rejected: "+rep.Reason, rep)), nil
	}

	rec, err := t.store.SaveSystem(name, definition)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	head := fmt.Sprintf("Stored %s version %s", rec.Name, rec.VersionID)
	if rec.ParentID != "" {
		head += fmt.Sprintf(" (parent %s)", rec.ParentID)
	}
	return mcp.NewToolResultText(formatIssues(head, rep)), nil
}

func formatIssues(head string, rep validate.Report) string {
	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n")
	for _, is := range rep.Hard {
		fmt.Fprintf(&b, "  [hard] %s: %s\n", is.Type, is.Reason)
	}
	for _, is := range rep.Soft {
		fmt.Fprintf(&b, "  [soft] %s: %s\n", is.Type, is.Reason)
	}
	return b.String()
}
