// Package server implements the MCP dispatcher: the method table that
// turns incoming JSON-RPC requests into tool calls, resource reads, and
// prompt lookups, and turns notifications into fire-and-forget state
// transitions. One Server instance backs every transport this process
// serves, whether that's a single stdio connection or many concurrent SSE
// sessions.
package server

import (
	"sync"

	"github.com/richard-senior/mcp-runtime/internal/config"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/mcperrors"
	"github.com/richard-senior/mcp-runtime/pkg/prompts"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/richard-senior/mcp-runtime/pkg/resources"
	"github.com/richard-senior/mcp-runtime/pkg/tools"
	"github.com/richard-senior/mcp-runtime/pkg/transport"
)

// Server holds the tool/resource/prompt registries and dispatches
// requests arriving on any Transport to the matching handler. It carries
// no per-connection state itself: per-connection initialize gating lives
// in a connState created by Serve for each transport it's handed.
type Server struct {
	cfg config.Config

	Tools     *tools.Registry
	Resources *resources.Registry
	Prompts   *prompts.Registry
}

// connState tracks the one piece of state that's scoped to a single
// connection rather than to the whole server: whether that connection has
// completed its initialize handshake yet.
type connState struct {
	mu          sync.RWMutex
	initialized bool
}

func (c *connState) setInitialized() {
	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
}

func (c *connState) isInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// New builds a Server with empty tool/resource registries and the given
// prompt store, then registers the built-in example tools and resources.
func New(cfg config.Config, promptRegistry *prompts.Registry) *Server {
	s := &Server{
		cfg:       cfg,
		Tools:     tools.NewRegistry(),
		Resources: resources.NewRegistry(),
		Prompts:   promptRegistry,
	}
	s.registerBuiltins()
	return s
}

func (s *Server) registerBuiltins() {
	s.Tools.Register(tools.AddTool(), tools.HandleAdd)
	s.Tools.Register(tools.DivideTool(), tools.HandleDivide)
	s.Tools.Register(tools.DateTimeTool(), tools.HandleDateTime)
	s.Tools.Register(tools.ScreenshotTool(), tools.HandleScreenshot)

	s.Resources.Register(resources.ExampleResource(), resources.ReadExampleResource)
	s.Resources.RegisterPrefix("web://", resources.WebResourceProvider(), resources.ReadWebResource)
}

// Serve drains t until it closes, dispatching each request to its handler
// in its own goroutine (a slow tool call, e.g. a screenshot or a web
// fetch, must never block unrelated requests on the same connection) and
// processing notifications inline. Serve returns when t's Closed channel
// fires.
func (s *Server) Serve(t transport.Transport) error {
	if err := t.Start(); err != nil {
		return err
	}

	conn := &connState{}
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case req, ok := <-t.Requests():
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.dispatchRequest(t, conn, req)
			}()

		case n, ok := <-t.Notifications():
			if !ok {
				return nil
			}
			s.dispatchNotification(conn, n)

		case err, ok := <-t.Errors():
			if !ok {
				continue
			}
			logger.Warn("server: transport error: %v", err)

		case <-t.Closed():
			return nil
		}
	}
}

func (s *Server) dispatchRequest(t transport.Transport, conn *connState, req *protocol.Request) {
	result, err := s.handleMethod(conn, req.Method, req.Params)

	var resp *protocol.Response
	if err != nil {
		wireErr := mcperrors.ToWireError(err)
		resp = &protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: req.ID, Error: wireErr}
	} else {
		r, buildErr := protocol.NewResponse(req.ID, result)
		if buildErr != nil {
			resp = &protocol.Response{
				JSONRPC: protocol.JSONRPCVersion,
				ID:      req.ID,
				Error:   &protocol.Error{Code: protocol.ErrInternal, Message: buildErr.Error()},
			}
		} else {
			resp = r
		}
	}

	if err := t.Send(resp); err != nil {
		logger.Warn("server: failed to send response for %s: %v", req.Method, err)
	}
}

func (s *Server) dispatchNotification(conn *connState, n *protocol.Notification) {
	switch n.Method {
	case protocol.MethodInitialized:
		conn.setInitialized()
		logger.Info("server: connection initialized")
	default:
		logger.Debug("server: ignoring notification %s", n.Method)
	}
}

// handleMethod is the method table. initialize is the one method serviced
// before the connection is marked initialized; every other method on an
// uninitialized connection is an InvalidRequestError, per the lifecycle
// MCP defines.
func (s *Server) handleMethod(conn *connState, method string, params []byte) (any, error) {
	if method != protocol.MethodInitialize && !conn.isInitialized() {
		return nil, &mcperrors.InvalidRequestError{Reason: "connection has not completed initialize"}
	}

	switch method {
	case protocol.MethodInitialize:
		return s.handleInitialize(params)
	case protocol.MethodToolsList:
		return s.handleToolsList()
	case protocol.MethodToolsCall:
		return s.handleToolsCall(params)
	case protocol.MethodResourcesList:
		return s.handleResourcesList()
	case protocol.MethodResourcesRead:
		return s.handleResourcesRead(params)
	case protocol.MethodPromptsList:
		return s.handlePromptsList()
	case protocol.MethodPromptsGet:
		return s.handlePromptsGet(params)
	default:
		return nil, &mcperrors.MethodNotFoundError{Method: method}
	}
}
