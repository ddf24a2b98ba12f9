// Package mcptools exposes fuzzy inference as MCP tools.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema and a Handle() processing
// the request. Tool failures are reported as error results, not Go errors.
package mcptools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// floatsArg extracts a list of numbers (JSON numbers are float64).
func floatsArg(req mcp.CallToolRequest, key string) ([]float64, error) {
	raw, ok := req.GetArguments()[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("'%s' must be an array of numbers", key)
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("'%s'[%d] is not a number", key, i)
		}
		out[i] = f
	}
	return out, nil
}
