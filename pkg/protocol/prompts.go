package protocol

// PromptArgument describes one named variable a prompt's content expects
// to have substituted in, e.g. the "{{language}}" placeholder in a
// code-review prompt's Content.
type PromptArgument struct {
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Prompt is a stored, parameterized message template. Content holds the
// raw template text with "{{name}}" placeholders; Variables documents
// which placeholders exist and whether callers must supply them.
type Prompt struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Content     string                    `json:"content"`
	Tags        []string                  `json:"tags,omitempty"`
	Variables   map[string]PromptArgument `json:"variables,omitempty"`
	Metadata    map[string]any            `json:"metadata,omitempty"`
}

// PromptDescriptor is the slimmed-down shape returned from prompts/list —
// callers see the name, description, and argument list, not the raw
// template content.
type PromptDescriptor struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Arguments   []PromptDescriptorArgument `json:"arguments,omitempty"`
}

// PromptDescriptorArgument is one entry in PromptDescriptor.Arguments.
type PromptDescriptorArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptsListResult is the result payload of prompts/list.
type PromptsListResult struct {
	Prompts []PromptDescriptor `json:"prompts"`
}

// PromptGetParams is the params payload of prompts/get.
type PromptGetParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// PromptContent is the content payload of one PromptMessage. Prompts only
// ever produce text content: the variable-substitution model spec.md
// describes operates on plain text templates.
type PromptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PromptMessage is one message in a prompts/get result, analogous in
// shape to a chat message (a role plus content).
type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}

// PromptGetResult is the result payload of prompts/get: the prompt's
// description plus its rendered messages, after variable substitution.
type PromptGetResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}
