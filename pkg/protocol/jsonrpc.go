// Package protocol defines the wire-level JSON-RPC 2.0 message model used by
// MCP: requests, notifications, responses, errors, the polymorphic request
// id, tool/resource/prompt descriptors, and the tagged-union Content type.
//
// https://modelcontextprotocol.info/specification/draft/basic/lifecycle/
// Flow:
//
//	host starts a server and sends an 'initialize' request, e.g.
//	{"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"claude-ai","version":"0.1.0"}},"jsonrpc":"2.0","id":0}
//	the server responds telling the host what it is, e.g.
//	{"jsonrpc":"2.0","id":0,"result":{"protocolVersion":"2024-11-05","capabilities":{"tools":{}},"serverInfo":{"name":"Demo","version":"1.0.0"}}}
//	the host then sends "notifications/initialized" to acknowledge, followed
//	by "tools/list", "resources/list", and "prompts/list" as needed.
package protocol

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the JSON-RPC protocol version string used on the wire.
const JSONRPCVersion = "2.0"

// ProtocolVersion is the compiled-in MCP protocol version this
// implementation speaks. The server never negotiates downward: whatever a
// client asks for at initialize, this is the version it gets back.
const ProtocolVersion = "2024-11-05"

// Method names for the built-in MCP methods this runtime dispatches.
const (
	MethodInitialize    = "initialize"
	MethodInitialized   = "notifications/initialized"
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodResourcesList = "resources/list"
	MethodResourcesRead = "resources/read"
	MethodPromptsList   = "prompts/list"
	MethodPromptsGet    = "prompts/get"
)

// RequestID is a JSON-RPC request identifier. The wire form may be a
// string, a number, or null; internally every id is normalized to a
// string so correlation tables never have to compare across types.
// A RequestID decoded from a JSON null reports IsAbsent; the zero value
// is the empty-string id, not an absent one.
type RequestID struct {
	value  string
	absent bool
}

// NewRequestID wraps a string id, e.g. one produced by a client's id
// generator.
func NewRequestID(s string) RequestID {
	return RequestID{value: s}
}

// String returns the normalized string form of the id.
func (id RequestID) String() string {
	return id.value
}

// IsAbsent reports whether no id was present on the wire (a notification).
func (id RequestID) IsAbsent() bool {
	return id.absent
}

// MarshalJSON emits the id as a JSON string, or null if absent. Internal
// normalization to string loses the original number/string distinction on
// the wire by design — spec round-trip only guarantees identity for ids
// that started out as strings.
func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.absent {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON string, number, or null and normalizes to a
// string internally.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = RequestID{absent: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = RequestID{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = RequestID{value: n.String()}
		return nil
	}

	return fmt.Errorf("protocol: id must be a string, number, or null, got %q", string(data))
}

// Request is a JSON-RPC 2.0 request object. A Request with an absent ID is
// a Notification on the wire; callers that need to distinguish should use
// Classify instead of inspecting ID directly.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Notification is a Request with no id: fire-and-forget, no response is
// ever generated for it.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response object. Exactly one of Result or
// Error is set; the zero value of json.RawMessage / *Error is treated as
// "not present" by the codec, which omits both fields from the wire when
// unset for the one that didn't win.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      RequestID       `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object, embedded in a Response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface so an *Error can be returned or
// wrapped like any other Go error.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error: code=%d message=%s", e.Code, e.Message)
}

// Standard JSON-RPC 2.0 error codes, plus the -32000..-32099 range
// reserved for implementation-specific server errors.
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	ErrServerBase     = -32000
)

// NewRequest builds a Request with the given method, id, and params
// (marshaled to JSON). The id field is always emitted; use NewNotification
// for a message without an id.
func NewRequest(method string, id RequestID, params any) (*Request, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Request{JSONRPC: JSONRPCVersion, ID: id, Method: method, Params: raw}, nil
}

// NewNotification builds a Notification for the given method and params.
func NewNotification(method string, params any) (*Notification, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Notification{JSONRPC: JSONRPCVersion, Method: method, Params: raw}, nil
}

// NewResponse builds a successful Response carrying result.
func NewResponse(id RequestID, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal result: %w", err)
	}
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: raw}, nil
}

// NewErrorResponse builds an error Response. id may be the absent
// RequestID when the originating request's id could not be recovered
// (e.g. a parse error on malformed JSON).
func NewErrorResponse(id RequestID, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: message, Data: data},
	}
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal params: %w", err)
	}
	return raw, nil
}
