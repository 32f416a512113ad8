// Package tools implements the tool registry and the built-in example
// tools this runtime ships: arithmetic, the current date/time, and a
// headless-browser screenshot tool.
package tools

import (
	"strings"
	"sync"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// Handler executes one tool call. args has already been decoded from the
// request's JSON arguments object; a handler validates/coerces its own
// arguments (best-effort — type coercion is acceptable) and reports
// failure through the returned ToolCallResult's IsError field. A non-nil
// error return is also reported to the caller as a ToolCallResult with
// IsError set and the error text as its content, never as a JSON-RPC
// error.
type Handler func(args map[string]any) (protocol.ToolCallResult, error)

// entry pairs a tool's descriptor and handler with its enabled state.
type entry struct {
	tool    protocol.Tool
	handler Handler
	enabled bool
}

// Registry holds every tool this server knows about. Registration
// happens once at startup; lookups and the enabled/disabled flag are
// safe for concurrent use from request-handling goroutines.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds tool with handler, enabled by default. Registering a name
// twice replaces the previous entry but keeps its position in listing
// order.
func (r *Registry) Register(tool protocol.Tool, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.entries[tool.Name] = &entry{tool: tool, handler: handler, enabled: true}

	prefix := categoryPrefix(tool.Name)
	count := 0
	for _, name := range r.order {
		if categoryPrefix(name) == prefix {
			count++
		}
	}
	logger.Info("Registered tool: %s (%d registered with prefix %s)", tool.Name, count, prefix)
}

// All returns every registered tool's descriptor, enabled or not, in
// registration order.
func (r *Registry) All() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].tool)
	}
	return out
}

// Enabled returns every tool currently enabled, in registration order.
// This is what tools/list reports to clients.
func (r *Registry) Enabled() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Tool, 0, len(r.order))
	for _, name := range r.order {
		if e := r.entries[name]; e.enabled {
			out = append(out, e.tool)
		}
	}
	return out
}

// SetEnabled replaces the whole enabled subset with exactly names: every
// registered tool whose name appears in names becomes enabled, every
// other registered tool becomes disabled. An unregistered name in names
// is a silent no-op for that entry — there's nothing to enable. Calling
// SetEnabled twice with the same set is idempotent: the resulting
// enabled subset is identical both times.
func (r *Registry) SetEnabled(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for name, e := range r.entries {
		e.enabled = want[name]
	}
}

// GetByName returns the handler for name if it is registered AND enabled;
// nil otherwise, so callers never have to check enabled state separately.
func (r *Registry) GetByName(name string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok || !e.enabled {
		return nil
	}
	return e.handler
}

// GetByPrefix returns every enabled tool whose name starts with prefix up
// to and including the first underscore — e.g. prefix "web_" matches
// "web_fetch" and "web_screenshot" but not "webhook_register". Tool
// authors group related tools under one category this way (e.g.
// "calc_add", "calc_divide").
func (r *Registry) GetByPrefix(prefix string) []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []protocol.Tool
	for _, name := range r.order {
		e := r.entries[name]
		if !e.enabled {
			continue
		}
		if categoryPrefix(name) == prefix {
			out = append(out, e.tool)
		}
	}
	return out
}

// categoryPrefix returns the substring of name up to and including its
// first underscore, or the whole name if it has none.
func categoryPrefix(name string) string {
	if idx := strings.IndexByte(name, '_'); idx >= 0 {
		return name[:idx+1]
	}
	return name
}
