package client

import (
	"context"
	"testing"
	"time"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondToRequest drains the next sent message and, if it is a request,
// replies with result via ft.responses.
func respondToRequest(t *testing.T, ft *fakeTransport, result any) {
	t.Helper()
	go func() {
		msg := <-ft.sent
		req, ok := msg.(*protocol.Request)
		if !ok {
			return
		}
		resp, err := protocol.NewResponse(req.ID, result)
		require.NoError(t, err)
		ft.responses <- resp
	}()
}

func TestInitializeSendsHandshakeThenNotifies(t *testing.T) {
	ft := newFakeTransport()
	c := New(ft)
	require.NoError(t, c.Start())
	defer c.Close()

	respondToRequest(t, ft, protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		ServerInfo:      protocol.ServerInfo{Name: "srv", Version: "1.0"},
	})

	result, err := c.Initialize(context.Background(), "test-client", "0.1")
	require.NoError(t, err)
	assert.Equal(t, "srv", result.ServerInfo.Name)

	select {
	case msg := <-ft.sent:
		n, ok := msg.(*protocol.Notification)
		require.True(t, ok, "Initialize must follow up with notifications/initialized")
		assert.Equal(t, protocol.MethodInitialized, n.Method)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initialized notification")
	}
}

func TestCallToolReturnsToolResult(t *testing.T) {
	ft := newFakeTransport()
	c := New(ft)
	require.NoError(t, c.Start())
	defer c.Close()

	respondToRequest(t, ft, protocol.NewToolResult("7"))

	result, err := c.CallTool(context.Background(), "calc_add", map[string]any{"a": 3, "b": 4})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "7", result.Content[0].Text)
}

func TestCallToolPropagatesWireError(t *testing.T) {
	ft := newFakeTransport()
	c := New(ft)
	require.NoError(t, c.Start())
	defer c.Close()

	go func() {
		req := (<-ft.sent).(*protocol.Request)
		ft.responses <- protocol.NewErrorResponse(req.ID, protocol.ErrInvalidParams, "unknown tool", nil)
	}()

	_, err := c.CallTool(context.Background(), "no_such_tool", nil)
	assert.Error(t, err)
}

func TestListResourcesAndReadResource(t *testing.T) {
	ft := newFakeTransport()
	c := New(ft)
	require.NoError(t, c.Start())
	defer c.Close()

	respondToRequest(t, ft, protocol.ResourcesListResult{
		Resources: []protocol.Resource{{URI: "doc://a", Name: "a"}},
	})
	resources, err := c.ListResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "doc://a", resources[0].URI)

	respondToRequest(t, ft, protocol.ResourceReadResult{
		Contents: []protocol.ResourceContents{{URI: "doc://a", Text: "hi"}},
	})
	contents, err := c.ReadResource(context.Background(), "doc://a")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "hi", contents[0].Text)
}

func TestListPromptsAndGetPrompt(t *testing.T) {
	ft := newFakeTransport()
	c := New(ft)
	require.NoError(t, c.Start())
	defer c.Close()

	respondToRequest(t, ft, protocol.PromptsListResult{
		Prompts: []protocol.PromptDescriptor{{Name: "sample"}},
	})
	prompts, err := c.ListPrompts(context.Background())
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "sample", prompts[0].Name)

	respondToRequest(t, ft, protocol.PromptGetResult{
		Messages: []protocol.PromptMessage{{Role: "user", Content: protocol.PromptContent{Type: "text", Text: "hi bob"}}},
	})
	got, err := c.GetPrompt(context.Background(), "sample", map[string]string{"name": "bob"})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi bob", got.Messages[0].Content.Text)
}
