// Package transport implements the framed message transports MCP runs
// over: newline-delimited JSON on stdio, and Server-Sent Events over HTTP.
// Both sides of the connection (the serving half and the connecting half)
// share the same Transport contract so the dispatcher and the client
// correlation engine never need to know which wire format is underneath.
package transport

import (
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// Transport is the common contract every framed connection implements.
// Inbound traffic is exposed as channels rather than callback
// registration: a channel has exactly one reader, so there's no hidden
// list of subscribers to reason about, and backpressure is visible in the
// channel buffer instead of an unbounded callback fan-out.
//
// Requests() and Notifications() are closed when the transport closes, so
// a range loop over either is a correct way to drain pending traffic and
// then stop. Errors() reports decode and I/O failures that aren't fatal to
// the transport (e.g. one malformed line on stdio); Closed() fires exactly
// once, when the transport will produce no further events.
type Transport interface {
	// Start begins reading from the underlying connection and populating
	// Requests/Notifications/Errors. It returns once the read loop has
	// been launched; it does not block for the lifetime of the
	// connection. Start may be called at most once; a second call
	// returns an error rather than launching a second, racing read loop.
	Start() error

	// Send writes a single message (a *protocol.Response or
	// *protocol.Notification) to the peer. Writes are serialized
	// internally: concurrent callers never interleave bytes on the wire.
	Send(msg any) error

	// Close shuts down the transport and releases its resources. Safe to
	// call more than once.
	Close() error

	Requests() <-chan *protocol.Request
	Notifications() <-chan *protocol.Notification
	Errors() <-chan error
	Closed() <-chan struct{}
}

// eventChannels is the shared channel set embedded by every Transport
// implementation in this package.
type eventChannels struct {
	requests      chan *protocol.Request
	notifications chan *protocol.Notification
	errs          chan error
	closed        chan struct{}
}

func newEventChannels() eventChannels {
	return eventChannels{
		requests:      make(chan *protocol.Request, 32),
		notifications: make(chan *protocol.Notification, 32),
		errs:          make(chan error, 8),
		closed:        make(chan struct{}),
	}
}

func (c *eventChannels) Requests() <-chan *protocol.Request           { return c.requests }
func (c *eventChannels) Notifications() <-chan *protocol.Notification { return c.notifications }
func (c *eventChannels) Errors() <-chan error                         { return c.errs }
func (c *eventChannels) Closed() <-chan struct{}                      { return c.closed }
