package transport

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// SSEServerTransport is the server-side half of one SSE session: a GET
// event stream the client keeps open to receive messages, and a POST
// message channel the client uses to send requests/notifications. One
// instance exists per live session; pkg/session.Manager owns the
// session-id-to-instance mapping and idle eviction.
//
// On the first write to the event stream, the transport emits the
// "endpoint" event carrying the URL the client must POST subsequent
// messages to (including its sessionId). Every later write is an
// "event: message" frame carrying one JSON-RPC message.
type SSEServerTransport struct {
	eventChannels

	sessionID   string
	endpointURL string

	mu        sync.Mutex
	w         http.ResponseWriter
	flusher   http.Flusher
	connected chan struct{}

	closeOnce   sync.Once
	lifecycleMu sync.RWMutex
	stopped     bool
}

// NewSSEServerTransport builds a transport for sessionID whose endpoint
// event will advertise endpointURL (typically the messages path with
// "?sessionId=" appended).
func NewSSEServerTransport(sessionID, endpointURL string) *SSEServerTransport {
	return &SSEServerTransport{
		eventChannels: newEventChannels(),
		sessionID:     sessionID,
		endpointURL:   endpointURL,
		connected:     make(chan struct{}),
	}
}

// Start is a no-op: the event stream only becomes writable once
// AttachStream is called from the GET /sse handler.
func (t *SSEServerTransport) Start() error {
	return nil
}

// AttachStream binds the transport to the ResponseWriter of a live GET
// request, sends the initial endpoint event, and returns without waiting
// for the stream to end; the HTTP handler must keep running for as long as
// the stream stays open. It must be called from within the HTTP handler
// goroutine, since writing to w after the handler returns is invalid.
func (t *SSEServerTransport) AttachStream(w http.ResponseWriter) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("transport: sse: response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	t.mu.Lock()
	t.w = w
	t.flusher = flusher
	t.mu.Unlock()

	if err := t.writeEvent("endpoint", []byte(t.endpointURL)); err != nil {
		return err
	}
	close(t.connected)
	return nil
}

// HandleMessage decodes one POSTed JSON-RPC message and dispatches it
// onto Requests or Notifications. Called from the POST /messages handler.
func (t *SSEServerTransport) HandleMessage(raw []byte) error {
	msg, err := protocol.Decode(raw)
	if err != nil {
		return err
	}

	t.lifecycleMu.RLock()
	defer t.lifecycleMu.RUnlock()
	if t.stopped {
		return fmt.Errorf("transport: sse: session is closed")
	}

	switch v := msg.(type) {
	case *protocol.Request:
		t.requests <- v
	case *protocol.Notification:
		t.notifications <- v
	default:
		return fmt.Errorf("transport: sse: unexpected message shape on message channel")
	}
	return nil
}

// Send writes msg as an "event: message" SSE frame. Writes block until
// AttachStream has bound a live stream; callers that need a bounded wait
// should select on Closed() alongside calling Send in a goroutine.
func (t *SSEServerTransport) Send(msg any) error {
	raw, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	<-t.connected
	return t.writeEvent("message", raw)
}

func (t *SSEServerTransport) writeEvent(event string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.w == nil {
		return fmt.Errorf("transport: sse: stream not attached")
	}

	if _, err := fmt.Fprintf(t.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("transport: sse write: %w", err)
	}
	t.flusher.Flush()
	return nil
}

// Close marks the transport closed and closes Requests/Notifications/
// Errors so a range loop over them terminates. The underlying HTTP
// response is torn down by the caller returning from the handler, since
// SSEServerTransport itself doesn't own the connection's lifecycle.
func (t *SSEServerTransport) Close() error {
	t.closeOnce.Do(func() {
		t.lifecycleMu.Lock()
		t.stopped = true
		close(t.eventChannels.requests)
		close(t.eventChannels.notifications)
		close(t.eventChannels.errs)
		t.lifecycleMu.Unlock()

		close(t.eventChannels.closed)
	})
	return nil
}
