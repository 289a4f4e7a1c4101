package mcpserver

import (
	"github.com/specfold/oasresolve/reserrors"
	"github.com/specfold/oasresolve/resolver"
)

// specInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set; the resolver validates this.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`

	// SandboxRoot widens the directory external $refs may reach.
	// Defaults to the document's own directory for file input.
	SandboxRoot string `json:"sandbox_root,omitempty" jsonschema:"Directory external references are confined to"`
}

// resolve runs a full resolution pass for the given input.
func (in specInput) resolve() (*resolver.Model, error) {
	var opts []resolver.Option
	switch {
	case in.File != "" && in.Content != "":
		return nil, &reserrors.ConfigError{
			Option:  "spec",
			Message: "provide file or content, not both",
		}
	case in.File != "":
		opts = append(opts, resolver.WithFilePath(in.File))
	case in.Content != "":
		opts = append(opts, resolver.WithBytes("mcp-input", []byte(in.Content)))
	default:
		return nil, &reserrors.ConfigError{
			Option:  "spec",
			Message: "provide file or content",
		}
	}
	if in.SandboxRoot != "" {
		opts = append(opts, resolver.WithSandboxRoot(in.SandboxRoot))
	}
	return resolver.ResolveWithOptions(opts...)
}
