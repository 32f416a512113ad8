package tools

import (
	"time"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// DateTimeTool returns the descriptor for "time_now".
func DateTimeTool() protocol.Tool {
	return protocol.Tool{
		Name:        "time_now",
		Description: "Returns the current date and time",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"format": {
					Type:        "string",
					Description: "A Go time layout such as 2006-01-02T15:04:05Z07:00; defaults to RFC3339",
				},
			},
		},
	}
}

// HandleDateTime implements "time_now".
func HandleDateTime(args map[string]any) (protocol.ToolCallResult, error) {
	logger.Info("handling time_now invocation")

	format := time.RFC3339
	if f, ok := args["format"].(string); ok && f != "" {
		format = f
	}

	return protocol.NewToolResult(time.Now().Format(format)), nil
}
