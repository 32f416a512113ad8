package protocol

// Resource is the descriptor returned from resources/list: a URI
// identifying the resource, plus optional display metadata. This shape
// replaces the teacher's {Name, Description, Type, Metadata} resource
// descriptor, which didn't carry a URI at all and couldn't round-trip
// through resources/read.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourcesListResult is the result payload of resources/list.
type ResourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// ResourceReadParams is the params payload of resources/read.
type ResourceReadParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one entry in a resources/read result: the resource's
// content, as either inline text or a base64 blob, never both.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ResourceReadResult is the result payload of resources/read.
type ResourceReadResult struct {
	Contents []ResourceContents `json:"contents"`
}
