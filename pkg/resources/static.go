package resources

import "github.com/richard-senior/mcp-runtime/pkg/protocol"

// docsContent is the body served for the built-in documentation
// resource.
const docsContent = "# MCP Runtime\n\nThis server exposes tools, resources, and prompts over the Model Context Protocol.\n"

// ExampleResource returns the descriptor for the static example
// documentation resource.
func ExampleResource() protocol.Resource {
	return protocol.Resource{
		URI:         "doc://mcp-runtime/readme",
		Name:        "readme",
		Description: "A short description of this server",
		MimeType:    "text/markdown",
	}
}

// ReadExampleResource is the Reader for ExampleResource.
func ReadExampleResource(uri string) (protocol.ResourceContents, error) {
	return protocol.ResourceContents{
		URI:      uri,
		MimeType: "text/markdown",
		Text:     docsContent,
	}, nil
}
