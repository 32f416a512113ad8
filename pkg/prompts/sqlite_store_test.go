package prompts

import (
	"path/filepath"
	"testing"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.db")
	r, err := NewRegistry(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRegistrySeedsSamplePrompts(t *testing.T) {
	r := newTestRegistry(t)

	all, err := r.ListPrompts()
	require.NoError(t, err)
	assert.Len(t, all, 4)

	p, err := r.GetPrompt("code-review")
	require.NoError(t, err)
	assert.Equal(t, "Code Review", p.Name)
	assert.Contains(t, p.Content, "{{language}}")
}

func TestSaveAndGetRoundTripsAllFields(t *testing.T) {
	r := newTestRegistry(t)

	p := &protocol.Prompt{
		ID:          "my-prompt",
		Name:        "My Prompt",
		Description: "a test prompt",
		Content:     "hello {{name}}",
		Tags:        []string{"a", "b"},
		Variables: map[string]protocol.PromptArgument{
			"name": {Description: "who to greet", Required: true},
		},
		Metadata: map[string]any{"category": "test"},
	}
	require.NoError(t, r.SavePrompt(p))

	got, err := r.GetPrompt("my-prompt")
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Content, got.Content)
	assert.ElementsMatch(t, p.Tags, got.Tags)
	assert.Equal(t, p.Variables["name"].Description, got.Variables["name"].Description)
	assert.Equal(t, "test", got.Metadata["category"])
}

func TestSavePromptUpsertsOnConflict(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SavePrompt(&protocol.Prompt{ID: "p1", Name: "v1", Content: "c1"}))
	require.NoError(t, r.SavePrompt(&protocol.Prompt{ID: "p1", Name: "v2", Content: "c2"}))

	got, err := r.GetPrompt("p1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.Equal(t, "c2", got.Content)

	all, err := r.ListPrompts()
	require.NoError(t, err)
	count := 0
	for _, p := range all {
		if p.ID == "p1" {
			count++
		}
	}
	assert.Equal(t, 1, count, "upsert must not create a duplicate row")
}

func TestDeletePromptRemovesIt(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.SavePrompt(&protocol.Prompt{ID: "p1", Name: "v1", Content: "c1"}))

	require.NoError(t, r.DeletePrompt("p1"))
	_, err := r.GetPrompt("p1")
	assert.Error(t, err)
}

func TestDeletePromptUnknownIDErrors(t *testing.T) {
	r := newTestRegistry(t)
	assert.Error(t, r.DeletePrompt("does-not-exist"))
}

func TestGetPromptUnknownIDErrors(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.GetPrompt("does-not-exist")
	assert.Error(t, err)
}

func TestValidateIDRejectsPathTraversal(t *testing.T) {
	r := newTestRegistry(t)

	for _, bad := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		_, err := r.GetPrompt(bad)
		assert.Error(t, err, "id %q must be rejected", bad)
	}
}
