package tools

import (
	"testing"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(args map[string]any) (protocol.ToolCallResult, error) {
	return protocol.NewToolResult("ok"), nil
}

func TestRegistryListsInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)
	r.Register(protocol.Tool{Name: "calc_divide"}, noopHandler)
	r.Register(protocol.Tool{Name: "time_now"}, noopHandler)

	names := toolNames(r.All())
	assert.Equal(t, []string{"calc_add", "calc_divide", "time_now"}, names)
}

func TestRegistryReplacingAnEntryKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add", Description: "v1"}, noopHandler)
	r.Register(protocol.Tool{Name: "time_now"}, noopHandler)
	r.Register(protocol.Tool{Name: "calc_add", Description: "v2"}, noopHandler)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "calc_add", all[0].Name)
	assert.Equal(t, "v2", all[0].Description)
}

func TestRegistryDisabledToolExcludedFromEnabledAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)
	r.SetEnabled(nil)

	assert.Empty(t, r.Enabled())
	assert.Nil(t, r.GetByName("calc_add"))
	assert.Len(t, r.All(), 1, "All still reports disabled tools")
}

func TestRegistrySetEnabledOnUnknownNameIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.NotPanics(t, func() { r.SetEnabled([]string{"nonexistent"}) })
}

func TestRegistrySetEnabledReplacesWholeSubset(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)
	r.Register(protocol.Tool{Name: "calc_divide"}, noopHandler)
	r.Register(protocol.Tool{Name: "time_now"}, noopHandler)

	r.SetEnabled([]string{"calc_add", "time_now"})
	assert.Equal(t, []string{"calc_add", "time_now"}, toolNames(r.Enabled()))

	r.SetEnabled([]string{"calc_divide"})
	assert.Equal(t, []string{"calc_divide"}, toolNames(r.Enabled()))
}

func TestRegistrySetEnabledIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)
	r.Register(protocol.Tool{Name: "calc_divide"}, noopHandler)

	names := []string{"calc_add"}
	r.SetEnabled(names)
	first := toolNames(r.Enabled())
	r.SetEnabled(names)
	second := toolNames(r.Enabled())

	assert.Equal(t, first, second)
}

func TestRegistryGetByNameReturnsHandler(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)

	h := r.GetByName("calc_add")
	require.NotNil(t, h)
	result, err := h(nil)
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestRegistryGetByPrefixGroupsByCategory(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)
	r.Register(protocol.Tool{Name: "calc_divide"}, noopHandler)
	r.Register(protocol.Tool{Name: "time_now"}, noopHandler)
	r.Register(protocol.Tool{Name: "webhook_register"}, noopHandler)
	r.Register(protocol.Tool{Name: "web_screenshot"}, noopHandler)

	calc := toolNames(r.GetByPrefix("calc_"))
	assert.Equal(t, []string{"calc_add", "calc_divide"}, calc)

	web := toolNames(r.GetByPrefix("web_"))
	assert.Equal(t, []string{"web_screenshot"}, web, "webhook_register must not match the web_ prefix")
}

func TestRegistryGetByPrefixSkipsDisabled(t *testing.T) {
	r := NewRegistry()
	r.Register(protocol.Tool{Name: "calc_add"}, noopHandler)
	r.Register(protocol.Tool{Name: "calc_divide"}, noopHandler)
	r.SetEnabled([]string{"calc_add"})

	calc := toolNames(r.GetByPrefix("calc_"))
	assert.Equal(t, []string{"calc_add"}, calc)
}

func toolNames(tools []protocol.Tool) []string {
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	return names
}
