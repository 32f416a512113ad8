package server

import (
	"testing"
	"time"

	"github.com/richard-senior/mcp-runtime/internal/config"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a hand-written in-memory Transport: tests push onto
// requests/notifications directly and read back whatever Serve sends.
type fakeTransport struct {
	requests      chan *protocol.Request
	notifications chan *protocol.Notification
	errs          chan error
	closed        chan struct{}
	sent          chan any
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		requests:      make(chan *protocol.Request, 8),
		notifications: make(chan *protocol.Notification, 8),
		errs:          make(chan error, 8),
		closed:        make(chan struct{}),
		sent:          make(chan any, 8),
	}
}

func (f *fakeTransport) Start() error                                    { return nil }
func (f *fakeTransport) Send(msg any) error                              { f.sent <- msg; return nil }
func (f *fakeTransport) Close() error                                    { return nil }
func (f *fakeTransport) Requests() <-chan *protocol.Request              { return f.requests }
func (f *fakeTransport) Notifications() <-chan *protocol.Notification    { return f.notifications }
func (f *fakeTransport) Errors() <-chan error                            { return f.errs }
func (f *fakeTransport) Closed() <-chan struct{}                         { return f.closed }

func testServer() *Server {
	cfg := config.DefaultConfig()
	cfg.ServerName = "test-server"
	cfg.ServerVersion = "0.0.0-test"
	return New(cfg, nil)
}

func sendRequest(t *testing.T, ft *fakeTransport, method string, params any) *protocol.Response {
	t.Helper()
	req, err := protocol.NewRequest(method, protocol.NewRequestID("1"), params)
	require.NoError(t, err)
	ft.requests <- req

	select {
	case msg := <-ft.sent:
		resp, ok := msg.(*protocol.Response)
		require.True(t, ok, "Serve must send a *protocol.Response")
		return resp
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a response")
		return nil
	}
}

func TestMethodsRejectedBeforeInitialize(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	resp := sendRequest(t, ft, protocol.MethodToolsList, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrInvalidRequest, resp.Error.Code)
}

func TestInitializeSucceedsBeforeHandshake(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	resp := sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{
		ProtocolVersion: "some-other-version",
		ClientInfo:      protocol.ClientInfo{Name: "test-client", Version: "1.0"},
	})
	require.Nil(t, resp.Error)

	var result protocol.InitializeResult
	require.NoError(t, protocol.DecodeParams(resp.Result, &result))
	assert.Equal(t, protocol.ProtocolVersion, result.ProtocolVersion, "server must report its own version, not the client's")
	assert.Equal(t, "test-server", result.ServerInfo.Name)
}

func TestToolsListServicedAfterInitialize(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{})
	ft.notifications <- &protocol.Notification{JSONRPC: protocol.JSONRPCVersion, Method: protocol.MethodInitialized}

	// allow the notification to be processed before the next request
	time.Sleep(10 * time.Millisecond)

	resp := sendRequest(t, ft, protocol.MethodToolsList, nil)
	require.Nil(t, resp.Error)

	var result protocol.ToolsListResult
	require.NoError(t, protocol.DecodeParams(resp.Result, &result))
	assert.NotEmpty(t, result.Tools)
}

func TestUnknownMethodIsMethodNotFound(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{})
	ft.notifications <- &protocol.Notification{JSONRPC: protocol.JSONRPCVersion, Method: protocol.MethodInitialized}
	time.Sleep(10 * time.Millisecond)

	resp := sendRequest(t, ft, "totally/unknown", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrMethodNotFound, resp.Error.Code)
}

func TestToolCallFailureIsResultNotWireError(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{})
	ft.notifications <- &protocol.Notification{JSONRPC: protocol.JSONRPCVersion, Method: protocol.MethodInitialized}
	time.Sleep(10 * time.Millisecond)

	resp := sendRequest(t, ft, protocol.MethodToolsCall, protocol.ToolCallParams{
		Name:      "calc_divide",
		Arguments: map[string]any{"a": 1.0, "b": 0.0},
	})
	require.Nil(t, resp.Error, "a tool's own failure must not become a JSON-RPC error")

	var result protocol.ToolCallResult
	require.NoError(t, protocol.DecodeParams(resp.Result, &result))
	assert.True(t, result.IsError)
}

func TestToolHandlerGoErrorIsResultNotWireError(t *testing.T) {
	srv := testServer()
	srv.Tools.Register(protocol.Tool{Name: "test_explode"}, func(args map[string]any) (protocol.ToolCallResult, error) {
		return protocol.ToolCallResult{}, assert.AnError
	})
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{})
	ft.notifications <- &protocol.Notification{JSONRPC: protocol.JSONRPCVersion, Method: protocol.MethodInitialized}
	time.Sleep(10 * time.Millisecond)

	resp := sendRequest(t, ft, protocol.MethodToolsCall, protocol.ToolCallParams{Name: "test_explode"})
	require.Nil(t, resp.Error, "a handler's Go error must surface as a tool result, not a JSON-RPC error")

	var result protocol.ToolCallResult
	require.NoError(t, protocol.DecodeParams(resp.Result, &result))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, assert.AnError.Error(), result.Content[0].Text)
}

func TestUnknownToolNameIsInvalidParams(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{})
	ft.notifications <- &protocol.Notification{JSONRPC: protocol.JSONRPCVersion, Method: protocol.MethodInitialized}
	time.Sleep(10 * time.Millisecond)

	resp := sendRequest(t, ft, protocol.MethodToolsCall, protocol.ToolCallParams{Name: "does_not_exist"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrInvalidParams, resp.Error.Code)
}

func TestConcurrentCallsEachGetTheirOwnResponse(t *testing.T) {
	srv := testServer()
	ft := newFakeTransport()
	go srv.Serve(ft)
	defer close(ft.closed)

	sendRequest(t, ft, protocol.MethodInitialize, protocol.InitializeParams{})
	ft.notifications <- &protocol.Notification{JSONRPC: protocol.JSONRPCVersion, Method: protocol.MethodInitialized}
	time.Sleep(10 * time.Millisecond)

	const n = 5
	for i := 0; i < n; i++ {
		req, err := protocol.NewRequest(protocol.MethodToolsCall, protocol.NewRequestID(string(rune('a'+i))),
			protocol.ToolCallParams{Name: "calc_add", Arguments: map[string]any{"a": float64(i), "b": 1.0}})
		require.NoError(t, err)
		ft.requests <- req
	}

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		select {
		case msg := <-ft.sent:
			resp := msg.(*protocol.Response)
			require.Nil(t, resp.Error)
			seen[resp.ID.String()] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for concurrent responses")
		}
	}
	assert.Len(t, seen, n, "every request id must get exactly one matching response")
}
