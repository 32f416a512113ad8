package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// StdioTransport frames messages as newline-delimited JSON over an
// arbitrary io.Reader/io.Writer pair. Production wires it to os.Stdin and
// os.Stdout; tests wire it to an io.Pipe. Each non-empty line is parsed as
// one JSON-RPC message; partial trailing bytes (a line with no terminating
// "\n" yet) remain buffered across reads rather than being parsed early.
type StdioTransport struct {
	eventChannels

	reader *bufio.Reader
	writer io.Writer

	writeMu   sync.Mutex
	closeOne  sync.Once
	startOnce sync.Once
}

// NewStdioTransport wraps r/w with newline framing. Callers must call
// Start before any messages will be produced on the event channels.
func NewStdioTransport(r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{
		eventChannels: newEventChannels(),
		reader:        bufio.NewReader(r),
		writer:        w,
	}
}

// Start launches the read loop in a goroutine. It reads one line at a
// time; each line is classified and pushed onto Requests or
// Notifications. A response-shaped line is logged and dropped: this
// runtime's stdio transport is server-only, it never expects a response
// from its peer.
func (t *StdioTransport) Start() error {
	started := false
	t.startOnce.Do(func() {
		started = true
		go t.readLoop()
	})
	if !started {
		return fmt.Errorf("transport: stdio: Start called more than once")
	}
	return nil
}

func (t *StdioTransport) readLoop() {
	defer func() {
		close(t.eventChannels.requests)
		close(t.eventChannels.notifications)
		close(t.eventChannels.errs)
		t.signalClosed()
	}()

	for {
		line, err := t.reader.ReadBytes('\n')
		if len(line) > 0 {
			t.handleLine(trimNewline(line))
		}
		if err != nil {
			if err != io.EOF {
				t.errs <- fmt.Errorf("transport: stdio read: %w", err)
			}
			return
		}
	}
}

func (t *StdioTransport) handleLine(line []byte) {
	if len(line) == 0 {
		return
	}

	kind, err := protocol.Classify(line)
	if err != nil {
		logger.Warn("stdio transport: dropping unparsable line: %v", err)
		t.errs <- fmt.Errorf("transport: classify: %w", err)
		return
	}

	switch kind {
	case protocol.KindRequest:
		var req protocol.Request
		if err := json.Unmarshal(line, &req); err != nil {
			t.errs <- fmt.Errorf("transport: decode request: %w", err)
			return
		}
		t.requests <- &req
	case protocol.KindNotification:
		var n protocol.Notification
		if err := json.Unmarshal(line, &n); err != nil {
			t.errs <- fmt.Errorf("transport: decode notification: %w", err)
			return
		}
		t.notifications <- &n
	default:
		logger.Warn("stdio transport: ignoring response-shaped message on server side")
	}
}

// Send marshals msg and writes it as one newline-terminated line. Writes
// are mutex-serialized so concurrent handler goroutines never interleave
// partial lines on stdout.
func (t *StdioTransport) Send(msg any) error {
	raw, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(raw); err != nil {
		return fmt.Errorf("transport: stdio write: %w", err)
	}
	if _, err := t.writer.Write([]byte("\n")); err != nil {
		return fmt.Errorf("transport: stdio write newline: %w", err)
	}
	return nil
}

// Close marks the transport closed. The read loop itself exits only when
// its underlying reader returns EOF or an error; Close does not
// interrupt an in-progress blocking read.
func (t *StdioTransport) Close() error {
	t.signalClosed()
	return nil
}

func (t *StdioTransport) signalClosed() {
	t.closeOne.Do(func() {
		close(t.eventChannels.closed)
	})
}

func trimNewline(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	n = len(line)
	if n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
