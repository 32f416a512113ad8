package protocol

import (
	"encoding/json"
	"fmt"
)

// ContentType discriminates the Content tagged union.
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeResource ContentType = "resource"
)

// Content is a tagged union of the three payload shapes a tool result or
// prompt message can carry. Exactly the fields relevant to Type are
// populated; the others are left zero. Unmarshaling an unrecognized Type
// value is a decode error rather than a silently-empty Content, so a
// malformed or future wire value never decodes into a Content which the
// reader mistakes for text.
type Content struct {
	Type ContentType `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// image
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`

	// resource
	Resource *EmbeddedResource `json:"resource,omitempty"`
}

// EmbeddedResource is the payload of a "resource" Content variant: a
// resource inlined directly into a tool result or prompt message rather
// than referenced by a separate resources/read call.
type EmbeddedResource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// TextContent builds a "text" Content value.
func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

// ImageContent builds an "image" Content value. data is base64-encoded
// image bytes.
func ImageContent(data, mimeType string) Content {
	return Content{Type: ContentTypeImage, Data: data, MimeType: mimeType}
}

// ResourceContent builds a "resource" Content value embedding res
// directly rather than by reference.
func ResourceContent(res EmbeddedResource) Content {
	return Content{Type: ContentTypeResource, Resource: &res}
}

// UnmarshalJSON enforces the tagged-union discipline: a Type this package
// doesn't recognize is a decode error, never a partially-populated value.
func (c *Content) UnmarshalJSON(data []byte) error {
	type alias Content
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("protocol: decode content: %w", err)
	}

	switch a.Type {
	case ContentTypeText, ContentTypeImage, ContentTypeResource:
		*c = Content(a)
		return nil
	default:
		return fmt.Errorf("protocol: unknown content type %q", a.Type)
	}
}
