package tools

import (
	"fmt"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/richard-senior/mcp-runtime/pkg/util"
)

// AddTool returns the descriptor for "calc_add".
func AddTool() protocol.Tool {
	return protocol.Tool{
		Name:        "calc_add",
		Description: "Adds two numbers together",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"a": {Type: "number", Description: "the first addend"},
				"b": {Type: "number", Description: "the second addend"},
			},
			Required: []string{"a", "b"},
		},
	}
}

// HandleAdd implements "calc_add". Arguments are coerced best-effort: a
// numeric string is accepted the same as a JSON number.
func HandleAdd(args map[string]any) (protocol.ToolCallResult, error) {
	a, err := util.GetAsFloat(args["a"])
	if err != nil {
		return protocol.NewToolError(fmt.Sprintf("invalid argument 'a': %v", err)), nil
	}
	b, err := util.GetAsFloat(args["b"])
	if err != nil {
		return protocol.NewToolError(fmt.Sprintf("invalid argument 'b': %v", err)), nil
	}

	result := a + b
	logger.Info("calc_add %v + %v = %v", a, b, result)
	return protocol.NewToolResult(fmt.Sprintf("%g", result)), nil
}

// DivideTool returns the descriptor for "calc_divide".
func DivideTool() protocol.Tool {
	return protocol.Tool{
		Name:        "calc_divide",
		Description: "Divides the first number by the second",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"a": {Type: "number", Description: "the dividend"},
				"b": {Type: "number", Description: "the divisor"},
			},
			Required: []string{"a", "b"},
		},
	}
}

// HandleDivide implements "calc_divide". Division by zero is a tool-level
// failure: it surfaces as a ToolCallResult with IsError set, never as a
// JSON-RPC error, since it's the caller's argument that's at fault, not
// the protocol exchange.
func HandleDivide(args map[string]any) (protocol.ToolCallResult, error) {
	a, err := util.GetAsFloat(args["a"])
	if err != nil {
		return protocol.NewToolError(fmt.Sprintf("invalid argument 'a': %v", err)), nil
	}
	b, err := util.GetAsFloat(args["b"])
	if err != nil {
		return protocol.NewToolError(fmt.Sprintf("invalid argument 'b': %v", err)), nil
	}

	if b == 0 {
		return protocol.NewToolError("division by zero"), nil
	}

	result := a / b
	logger.Info("calc_divide %v / %v = %v", a, b, result)
	return protocol.NewToolResult(fmt.Sprintf("%g", result)), nil
}
