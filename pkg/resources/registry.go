// Package resources implements the resource registry and the built-in
// resource providers this runtime ships: a static example document and a
// web-page-to-markdown fetcher.
package resources

import (
	"fmt"
	"strings"
	"sync"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// Reader fetches a resource's contents on demand. Static resources close
// over pre-built content; dynamic ones (like the web fetcher) do real I/O
// when called.
type Reader func(uri string) (protocol.ResourceContents, error)

type entry struct {
	resource protocol.Resource
	read     Reader
}

// prefixEntry backs a provider that serves any URI sharing a scheme
// prefix (e.g. "web://") rather than one fixed URI, so a single
// registration can answer resources/read for arbitrary URLs instead of
// needing one Register call per concrete page.
type prefixEntry struct {
	prefix   string
	resource protocol.Resource
	read     Reader
}

// Registry holds every resource this server exposes, keyed by URI, plus
// any prefix-matched providers.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	order    []string
	prefixes []prefixEntry
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a resource with its reader.
func (r *Registry) Register(res protocol.Resource, read Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[res.URI]; !exists {
		r.order = append(r.order, res.URI)
	}
	r.entries[res.URI] = &entry{resource: res, read: read}
	logger.Info("Registered resource: %s", res.URI)
}

// RegisterPrefix adds a provider that serves any URI beginning with
// prefix. desc advertises the capability in List (its own URI is the
// prefix itself, e.g. "web://") rather than one concrete page.
func (r *Registry) RegisterPrefix(prefix string, desc protocol.Resource, read Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefixes = append(r.prefixes, prefixEntry{prefix: prefix, resource: desc, read: read})
	logger.Info("Registered resource provider: %s*", prefix)
}

// List returns every resource's descriptor in registration order,
// followed by the catalog entries for any prefix-matched providers.
func (r *Registry) List() []protocol.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Resource, 0, len(r.order)+len(r.prefixes))
	for _, uri := range r.order {
		out = append(out, r.entries[uri].resource)
	}
	for _, p := range r.prefixes {
		out = append(out, p.resource)
	}
	return out
}

// Read fetches the contents of uri, returning an error if uri isn't
// registered and matches no registered prefix provider.
func (r *Registry) Read(uri string) (protocol.ResourceContents, error) {
	r.mu.RLock()
	e, ok := r.entries[uri]
	prefixes := r.prefixes
	r.mu.RUnlock()

	if ok {
		return e.read(uri)
	}
	for _, p := range prefixes {
		if strings.HasPrefix(uri, p.prefix) {
			return p.read(uri)
		}
	}
	return protocol.ResourceContents{}, fmt.Errorf("resource not found: %s", uri)
}
