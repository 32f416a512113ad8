package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// ClientState is the SSE client's connection lifecycle.
type ClientState int

const (
	StateConnecting ClientState = iota
	StateAwaitingEndpoint
	StateReady
	StateClosed
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAwaitingEndpoint:
		return "awaiting_endpoint"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultEndpointHandshakeTimeout bounds how long the client will wait for
// the server's initial "endpoint" event before giving up.
const DefaultEndpointHandshakeTimeout = 10 * time.Second

// SSEClientTransport connects to a server's SSE endpoint, waits for the
// "endpoint" event advertising where to POST outgoing messages, and then
// behaves like any other Transport: Send POSTs a message, and messages
// streamed back over the open GET connection surface as Requests (server
// calling back into the client; rare but spec-legal) or as decoded
// responses delivered to the correlation engine via Notifications/
// Requests is not applicable here — SSEClientTransport additionally
// exposes responses through its own channel since a client transport must
// see JSON-RPC responses, which the generic Transport interface's
// Requests/Notifications pair doesn't carry.
type SSEClientTransport struct {
	eventChannels

	httpClient *http.Client
	baseURL    string

	mu          sync.Mutex
	state       ClientState
	endpointURL string

	responses chan *protocol.Response
	ready     chan struct{}
	readyOnce sync.Once

	startOnce sync.Once
	closeOnce sync.Once
}

// NewSSEClientTransport builds a client transport pointed at baseURL
// (the server's SSE stream URL, e.g. "http://host:port/sse").
func NewSSEClientTransport(baseURL string, httpClient *http.Client) *SSEClientTransport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &SSEClientTransport{
		eventChannels: newEventChannels(),
		httpClient:    httpClient,
		baseURL:       baseURL,
		state:         StateConnecting,
		responses:     make(chan *protocol.Response, 32),
		ready:         make(chan struct{}),
	}
}

// Responses exposes JSON-RPC responses streamed back from the server.
func (t *SSEClientTransport) Responses() <-chan *protocol.Response {
	return t.responses
}

// State reports the current bootstrap state.
func (t *SSEClientTransport) State() ClientState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start opens the GET stream and begins the endpoint handshake. It
// returns once the goroutine reading the stream has been launched; use
// WaitReady to block until the endpoint event has actually arrived.
func (t *SSEClientTransport) Start() error {
	started := false
	t.startOnce.Do(func() { started = true })
	if !started {
		return fmt.Errorf("transport: sse client: Start called more than once")
	}

	t.setState(StateAwaitingEndpoint)

	req, err := http.NewRequest(http.MethodGet, t.baseURL, nil)
	if err != nil {
		return fmt.Errorf("transport: sse client: build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transport: sse client: connect: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("transport: sse client: server returned %d", resp.StatusCode)
	}

	go t.readLoop(resp.Body)
	return nil
}

// WaitReady blocks until the endpoint event has been received (StateReady)
// or timeout elapses, whichever comes first.
func (t *SSEClientTransport) WaitReady(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultEndpointHandshakeTimeout
	}
	select {
	case <-t.ready:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("transport: sse client: endpoint handshake timed out after %s", timeout)
	}
}

func (t *SSEClientTransport) readLoop(body io.ReadCloser) {
	defer func() {
		body.Close()
		t.setState(StateClosed)
		close(t.eventChannels.requests)
		close(t.eventChannels.notifications)
		close(t.eventChannels.errs)
		close(t.responses)
		t.signalClosed()
	}()

	t.scanEvents(body)
}

func (t *SSEClientTransport) scanEvents(r io.Reader) {
	scanner := bufio.NewScanner(r)
	var event string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			t.handleEvent(event, data)
		case line == "":
			event = ""
		}
	}
}

func (t *SSEClientTransport) handleEvent(event, data string) {
	switch event {
	case "endpoint":
		t.mu.Lock()
		t.endpointURL = t.resolveEndpoint(data)
		t.mu.Unlock()
		t.setState(StateReady)
		t.readyOnce.Do(func() { close(t.ready) })
	case "message":
		t.handleMessage([]byte(data))
	default:
		// Unrecognized event names are ignored rather than treated as
		// fatal: a server may add events this client doesn't know about.
	}
}

// resolveEndpoint resolves a possibly-relative endpoint URL against the
// stream's own base URL, the same way a browser resolves a relative href.
func (t *SSEClientTransport) resolveEndpoint(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	base := t.baseURL
	if idx := strings.Index(base, "://"); idx >= 0 {
		if slash := strings.Index(base[idx+3:], "/"); slash >= 0 {
			base = base[:idx+3+slash]
		}
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return base + raw
}

func (t *SSEClientTransport) handleMessage(raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		t.errs <- fmt.Errorf("transport: sse client: decode message: %w", err)
		return
	}

	switch v := msg.(type) {
	case *protocol.Response:
		t.responses <- v
	case *protocol.Request:
		t.requests <- v
	case *protocol.Notification:
		t.notifications <- v
	}
}

// Send POSTs msg to the endpoint advertised by the server's handshake.
// Calling Send before the endpoint event has arrived is an error: callers
// must WaitReady first.
func (t *SSEClientTransport) Send(msg any) error {
	t.mu.Lock()
	endpoint := t.endpointURL
	state := t.state
	t.mu.Unlock()

	if state != StateReady {
		return fmt.Errorf("transport: sse client: not ready (state=%s)", state)
	}

	raw, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("transport: sse client: build post: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transport: sse client: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("transport: sse client: server returned %d", resp.StatusCode)
	}
	return nil
}

func (t *SSEClientTransport) Close() error {
	t.setState(StateClosed)
	t.signalClosed()
	return nil
}

func (t *SSEClientTransport) signalClosed() {
	t.closeOnce.Do(func() {
		close(t.eventChannels.closed)
	})
}

func (t *SSEClientTransport) setState(s ClientState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}
