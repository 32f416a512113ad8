package resources

import (
	"testing"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryListInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Resource{URI: "doc://a"}, ReadExampleResource)
	r.Register(protocol.Resource{URI: "doc://b"}, ReadExampleResource)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "doc://a", list[0].URI)
	assert.Equal(t, "doc://b", list[1].URI)
}

func TestRegistryReadUnknownURIErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Read("doc://missing")
	assert.Error(t, err)
}

func TestRegistryReadDelegatesToReader(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Resource{URI: "doc://a"}, func(uri string) (protocol.ResourceContents, error) {
		return protocol.ResourceContents{URI: uri, Text: "hi"}, nil
	})

	contents, err := r.Read("doc://a")
	require.NoError(t, err)
	assert.Equal(t, "hi", contents.Text)
}

func TestRegistryPrefixProviderServesAnyMatchingURI(t *testing.T) {
	r := NewRegistry()
	r.RegisterPrefix("web://", protocol.Resource{URI: "web://"}, func(uri string) (protocol.ResourceContents, error) {
		return protocol.ResourceContents{URI: uri, Text: "fetched " + uri}, nil
	})

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "web://", list[0].URI)

	contents, err := r.Read("web://https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "fetched web://https://example.com/page", contents.Text)
}

func TestRegistryExactMatchTakesPriorityOverPrefix(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Resource{URI: "web://pinned"}, func(uri string) (protocol.ResourceContents, error) {
		return protocol.ResourceContents{URI: uri, Text: "pinned"}, nil
	})
	r.RegisterPrefix("web://", protocol.Resource{URI: "web://"}, func(uri string) (protocol.ResourceContents, error) {
		return protocol.ResourceContents{URI: uri, Text: "generic"}, nil
	})

	contents, err := r.Read("web://pinned")
	require.NoError(t, err)
	assert.Equal(t, "pinned", contents.Text)
}

func TestExampleResourceRoundTrip(t *testing.T) {
	res := ExampleResource()
	contents, err := ReadExampleResource(res.URI)
	require.NoError(t, err)
	assert.Equal(t, res.URI, contents.URI)
	assert.Contains(t, contents.Text, "MCP Runtime")
}
