package server

import (
	"fmt"
	"strings"

	"github.com/richard-senior/mcp-runtime/pkg/mcperrors"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// handleInitialize answers the initialize handshake. The server always
// reports its own compiled-in ProtocolVersion, never the client's
// requested one: a version mismatch is accepted, not negotiated.
func (s *Server) handleInitialize(params []byte) (*protocol.InitializeResult, error) {
	var in protocol.InitializeParams
	if err := protocol.DecodeParams(params, &in); err != nil {
		return nil, &mcperrors.InvalidParamsError{Reason: err.Error()}
	}

	caps := protocol.Capabilities{}
	if len(s.Tools.All()) > 0 {
		caps["tools"] = map[string]any{"listChanged": false}
	}
	if len(s.Resources.List()) > 0 {
		caps["resources"] = map[string]any{"listChanged": false}
	}
	if s.Prompts != nil {
		caps["prompts"] = map[string]any{"listChanged": false}
	}

	return &protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities:    caps,
		ServerInfo: protocol.ServerInfo{
			Name:    s.cfg.ServerName,
			Version: s.cfg.ServerVersion,
		},
		Instructions: s.cfg.Instructions,
	}, nil
}

func (s *Server) handleToolsList() (*protocol.ToolsListResult, error) {
	return &protocol.ToolsListResult{Tools: s.Tools.Enabled()}, nil
}

func (s *Server) handleToolsCall(params []byte) (*protocol.ToolCallResult, error) {
	var in protocol.ToolCallParams
	if err := protocol.DecodeParams(params, &in); err != nil {
		return nil, &mcperrors.InvalidParamsError{Reason: err.Error()}
	}

	handler := s.Tools.GetByName(in.Name)
	if handler == nil {
		return nil, &mcperrors.InvalidParamsError{Reason: fmt.Sprintf("unknown or disabled tool: %s", in.Name)}
	}

	result, err := handler(in.Arguments)
	if err != nil {
		result = protocol.NewToolError(err.Error())
	}
	return &result, nil
}

func (s *Server) handleResourcesList() (*protocol.ResourcesListResult, error) {
	return &protocol.ResourcesListResult{Resources: s.Resources.List()}, nil
}

func (s *Server) handleResourcesRead(params []byte) (*protocol.ResourceReadResult, error) {
	var in protocol.ResourceReadParams
	if err := protocol.DecodeParams(params, &in); err != nil {
		return nil, &mcperrors.InvalidParamsError{Reason: err.Error()}
	}

	contents, err := s.Resources.Read(in.URI)
	if err != nil {
		return nil, &mcperrors.InvalidParamsError{Reason: err.Error()}
	}
	return &protocol.ResourceReadResult{Contents: []protocol.ResourceContents{contents}}, nil
}

func (s *Server) handlePromptsList() (*protocol.PromptsListResult, error) {
	if s.Prompts == nil {
		return &protocol.PromptsListResult{}, nil
	}

	all, err := s.Prompts.ListPrompts()
	if err != nil {
		return nil, &mcperrors.InternalError{Err: err}
	}

	descs := make([]protocol.PromptDescriptor, 0, len(all))
	for _, p := range all {
		var args []protocol.PromptDescriptorArgument
		for name, v := range p.Variables {
			args = append(args, protocol.PromptDescriptorArgument{
				Name:        name,
				Description: v.Description,
				Required:    v.Required,
			})
		}
		descs = append(descs, protocol.PromptDescriptor{
			Name:        p.ID,
			Description: p.Description,
			Arguments:   args,
		})
	}
	return &protocol.PromptsListResult{Prompts: descs}, nil
}

func (s *Server) handlePromptsGet(params []byte) (*protocol.PromptGetResult, error) {
	if s.Prompts == nil {
		return nil, &mcperrors.InvalidParamsError{Reason: "no prompts are registered"}
	}

	var in protocol.PromptGetParams
	if err := protocol.DecodeParams(params, &in); err != nil {
		return nil, &mcperrors.InvalidParamsError{Reason: err.Error()}
	}

	prompt, err := s.Prompts.GetPrompt(in.Name)
	if err != nil {
		return nil, &mcperrors.InvalidParamsError{Reason: err.Error()}
	}

	content := prompt.Content
	for key, value := range in.Arguments {
		content = strings.ReplaceAll(content, "{{"+key+"}}", value)
	}

	return &protocol.PromptGetResult{
		Description: prompt.Description,
		Messages: []protocol.PromptMessage{
			{Role: "user", Content: protocol.PromptContent{Type: "text", Text: content}},
		},
	}, nil
}
