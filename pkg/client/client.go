// Package client implements the request/response correlation engine an
// MCP client needs on top of a transport.Transport: it assigns ids,
// tracks which requests are outstanding, and routes each arriving
// response to the goroutine that's waiting for it.
package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/richard-senior/mcp-runtime/pkg/transport"
)

// DefaultCallTimeout bounds how long Call waits for a response when the
// caller's context carries no deadline of its own.
const DefaultCallTimeout = 60 * time.Second

// responseSource is implemented by any transport that can deliver JSON-RPC
// responses back to a client — stdio reads them off Requests()-shaped
// channels are never sent to a client, so only SSEClientTransport
// implements this today, but Client depends on the interface, not the
// concrete type.
type responseSource interface {
	Responses() <-chan *protocol.Response
}

// Client correlates outgoing requests with incoming responses over a
// single Transport. It does not implement the MCP method semantics
// itself — see highlevel.go for Initialize/ListTools/CallTool/etc. built
// on top of Call.
type Client struct {
	t transport.Transport

	nextID int64

	mu      sync.Mutex
	pending map[string]chan *protocol.Response

	closeOnce sync.Once
	done      chan struct{}
}

// New wraps t. Callers must call Start before issuing any Call.
func New(t transport.Transport) *Client {
	return &Client{
		t:       t,
		pending: make(map[string]chan *protocol.Response),
		done:    make(chan struct{}),
	}
}

// Start launches the transport and the goroutine that routes incoming
// responses to pending callers.
func (c *Client) Start() error {
	if err := c.t.Start(); err != nil {
		return err
	}
	go c.routeResponses()
	return nil
}

func (c *Client) routeResponses() {
	src, ok := c.t.(responseSource)
	if !ok {
		logger.Warn("client: transport does not expose a response channel; Call will always time out")
		return
	}

	for {
		select {
		case resp, ok := <-src.Responses():
			if !ok {
				c.failAllPending(fmt.Errorf("client: transport closed"))
				return
			}
			c.deliver(resp)
		case <-c.t.Closed():
			c.failAllPending(fmt.Errorf("client: transport closed"))
			return
		case <-c.done:
			return
		}
	}
}

func (c *Client) deliver(resp *protocol.Response) {
	c.mu.Lock()
	ch, ok := c.pending[resp.ID.String()]
	if ok {
		delete(c.pending, resp.ID.String())
	}
	c.mu.Unlock()

	if !ok {
		logger.Warn("client: response for unknown or already-completed id %s", resp.ID.String())
		return
	}
	ch <- resp
}

func (c *Client) failAllPending(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan *protocol.Response)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- &protocol.Response{
			Error: &protocol.Error{Code: protocol.ErrInternal, Message: err.Error()},
		}
	}
}

// Call sends method/params as a request and blocks until the matching
// response arrives, ctx is done, or DefaultCallTimeout elapses (whichever
// comes first when ctx carries no deadline).
func (c *Client) Call(ctx context.Context, method string, params any) (*protocol.Response, error) {
	id := protocol.NewRequestID(fmt.Sprintf("%d", atomic.AddInt64(&c.nextID, 1)))

	req, err := protocol.NewRequest(method, id, params)
	if err != nil {
		return nil, err
	}

	ch := make(chan *protocol.Response, 1)
	c.mu.Lock()
	c.pending[id.String()] = ch
	c.mu.Unlock()

	if err := c.t.Send(req); err != nil {
		c.mu.Lock()
		delete(c.pending, id.String())
		c.mu.Unlock()
		return nil, fmt.Errorf("client: send %s: %w", method, err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCallTimeout)
		defer cancel()
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id.String())
		c.mu.Unlock()
		return nil, fmt.Errorf("client: call %s: %w", method, ctx.Err())
	}
}

// Notify sends a fire-and-forget notification; there is no response to
// wait for.
func (c *Client) Notify(method string, params any) error {
	n, err := protocol.NewNotification(method, params)
	if err != nil {
		return err
	}
	return c.t.Send(n)
}

// Close shuts down the underlying transport and fails any pending calls.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	c.failAllPending(fmt.Errorf("client: closed"))
	return c.t.Close()
}
