package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// result unmarshals a successful response's Result into dst, or returns
// the wire error as a Go error if the call failed at the JSON-RPC level.
func result(resp *protocol.Response, dst any) error {
	if resp.Error != nil {
		return resp.Error
	}
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, dst); err != nil {
		return fmt.Errorf("client: decode result: %w", err)
	}
	return nil
}

// Initialize performs the handshake: sends initialize, then fires the
// notifications/initialized acknowledgment once the server replies.
func (c *Client) Initialize(ctx context.Context, clientName, clientVersion string) (*protocol.InitializeResult, error) {
	params := protocol.InitializeParams{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities:    protocol.Capabilities{},
		ClientInfo:      protocol.ClientInfo{Name: clientName, Version: clientVersion},
	}

	resp, err := c.Call(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return nil, err
	}

	var out protocol.InitializeResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}

	if err := c.Notify(protocol.MethodInitialized, nil); err != nil {
		return nil, fmt.Errorf("client: send initialized notification: %w", err)
	}
	return &out, nil
}

// ListTools calls tools/list.
func (c *Client) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	resp, err := c.Call(ctx, protocol.MethodToolsList, nil)
	if err != nil {
		return nil, err
	}
	var out protocol.ToolsListResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

// CallTool calls tools/call with the given tool name and arguments.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*protocol.ToolCallResult, error) {
	resp, err := c.Call(ctx, protocol.MethodToolsCall, protocol.ToolCallParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}
	var out protocol.ToolCallResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListResources calls resources/list.
func (c *Client) ListResources(ctx context.Context) ([]protocol.Resource, error) {
	resp, err := c.Call(ctx, protocol.MethodResourcesList, nil)
	if err != nil {
		return nil, err
	}
	var out protocol.ResourcesListResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

// ReadResource calls resources/read for the given URI.
func (c *Client) ReadResource(ctx context.Context, uri string) ([]protocol.ResourceContents, error) {
	resp, err := c.Call(ctx, protocol.MethodResourcesRead, protocol.ResourceReadParams{URI: uri})
	if err != nil {
		return nil, err
	}
	var out protocol.ResourceReadResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}
	return out.Contents, nil
}

// ListPrompts calls prompts/list.
func (c *Client) ListPrompts(ctx context.Context) ([]protocol.PromptDescriptor, error) {
	resp, err := c.Call(ctx, protocol.MethodPromptsList, nil)
	if err != nil {
		return nil, err
	}
	var out protocol.PromptsListResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}
	return out.Prompts, nil
}

// GetPrompt calls prompts/get for name with the given template arguments.
func (c *Client) GetPrompt(ctx context.Context, name string, args map[string]string) (*protocol.PromptGetResult, error) {
	resp, err := c.Call(ctx, protocol.MethodPromptsGet, protocol.PromptGetParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}
	var out protocol.PromptGetResult
	if err := result(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
