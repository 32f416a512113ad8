package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRoundTripsText(t *testing.T) {
	c := TextContent("hello")
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Content
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ContentTypeText, decoded.Type)
	assert.Equal(t, "hello", decoded.Text)
}

func TestContentRoundTripsImage(t *testing.T) {
	c := ImageContent("YmFzZTY0", "image/png")
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Content
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ContentTypeImage, decoded.Type)
	assert.Equal(t, "YmFzZTY0", decoded.Data)
	assert.Equal(t, "image/png", decoded.MimeType)
}

func TestContentRejectsUnknownType(t *testing.T) {
	var c Content
	err := json.Unmarshal([]byte(`{"type":"video","data":"x"}`), &c)
	assert.Error(t, err)
}

func TestContentRejectsMalformedJSON(t *testing.T) {
	var c Content
	err := json.Unmarshal([]byte(`not json`), &c)
	assert.Error(t, err)
}
