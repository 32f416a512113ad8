package protocol

// ToolProperty describes one property of a tool's JSON-schema input shape.
type ToolProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the (simplified) JSON-schema object describing a tool's
// call arguments. Validation against it is best-effort: handlers coerce
// rather than reject where a reasonable conversion exists (e.g. a numeric
// string for a "number" property).
type InputSchema struct {
	Type                 string                  `json:"type"`
	Properties           map[string]ToolProperty `json:"properties,omitempty"`
	Required             []string                `json:"required,omitempty"`
	AdditionalProperties bool                    `json:"additionalProperties"`
}

// Tool is the descriptor returned from tools/list: a name, a
// human-readable description, and its input schema.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema"`
}

// ToolsListResult is the result payload of tools/list.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// ToolCallParams is the params payload of tools/call.
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolCallResult is the result payload of tools/call. A tool that fails
// (bad input, a runtime error it can attribute to itself) sets IsError
// and explains itself via Content — this is the result plane, not the
// JSON-RPC error plane. A dispatcher-level failure (unknown tool name,
// malformed params) is a JSON-RPC Error instead and never reaches this
// type.
type ToolCallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// NewToolResult builds a successful ToolCallResult out of plain text.
func NewToolResult(text string) ToolCallResult {
	return ToolCallResult{Content: []Content{TextContent(text)}}
}

// NewToolError builds a failed ToolCallResult out of plain text. This is
// still a protocol-success response: IsError only marks the tool's own
// outcome.
func NewToolError(text string) ToolCallResult {
	return ToolCallResult{Content: []Content{TextContent(text)}, IsError: true}
}
