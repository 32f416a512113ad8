package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/richard-senior/mcp-runtime/internal/config"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/auth"
	"github.com/richard-senior/mcp-runtime/pkg/session"
	"github.com/richard-senior/mcp-runtime/pkg/transport"
)

// HTTPHandler wires the SSE transport to net/http: GET on SSEPath opens a
// long-lived event stream and registers a new session; POST on
// MessagesPath delivers one JSON-RPC message into the session named by
// its "sessionId" query parameter. One HTTPHandler serves every session
// for the lifetime of the process.
type HTTPHandler struct {
	srv       *Server
	sessions  *session.Manager
	cfg       config.Config
	validator auth.Validator
}

// NewHTTPHandler builds the SSE transport's HTTP surface for srv.
func NewHTTPHandler(srv *Server, cfg config.Config) *HTTPHandler {
	return &HTTPHandler{
		srv:       srv,
		sessions:  session.NewManager(cfg.SessionIdleTimeout, session.DefaultSweepInterval),
		cfg:       cfg,
		validator: cfg.Validator(),
	}
}

// Mux builds the http.ServeMux this handler answers on.
func (h *HTTPHandler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(h.cfg.SSEPath, h.handleSSE)
	mux.HandleFunc(h.cfg.MessagesPath, h.handleMessages)
	mux.HandleFunc(h.cfg.HealthPath, h.handleHealth)
	return mux
}

// Shutdown stops the session sweeper and closes every live session.
func (h *HTTPHandler) Shutdown() {
	h.sessions.Shutdown()
}

func (h *HTTPHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.validator == nil {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("api_key")
	}
	if err := h.validator.Validate(token); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func (h *HTTPHandler) setCORSHeaders(w http.ResponseWriter) {
	origin := "*"
	if len(h.cfg.AllowedOrigins) > 0 {
		origin = h.cfg.AllowedOrigins[0]
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (h *HTTPHandler) handleSSE(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		return
	}
	if !h.authorize(w, r) {
		return
	}

	placeholder := transport.NewSSEServerTransport("", h.cfg.MessagesPath)
	sess := h.sessions.Register(placeholder)

	endpoint := &url.URL{Path: h.cfg.MessagesPath}
	q := url.Values{}
	q.Set("sessionId", sess.ID)
	endpoint.RawQuery = q.Encode()

	t := transport.NewSSEServerTransport(sess.ID, endpoint.String())
	sess.Transport = t

	logger.Info("sse: session %s connected", sess.ID)

	go func() {
		if err := h.srv.Serve(t); err != nil {
			logger.Warn("sse: session %s dispatch loop ended: %v", sess.ID, err)
		}
	}()

	if err := t.AttachStream(w); err != nil {
		logger.Warn("sse: session %s failed to attach stream: %v", sess.ID, err)
		h.sessions.Remove(sess.ID)
		return
	}

	<-r.Context().Done()
	h.sessions.Remove(sess.ID)
	logger.Info("sse: session %s disconnected", sess.ID)
}

func (h *HTTPHandler) handleMessages(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorize(w, r) {
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	sess := h.sessions.Lookup(sessionID)
	if sess == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	sess.Touch()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := sess.Transport.HandleMessage(body); err != nil {
		http.Error(w, "invalid message: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok","sessions":` + strconv.Itoa(h.sessions.Count()) + `}`))
}
