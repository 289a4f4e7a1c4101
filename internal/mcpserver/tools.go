package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specfold/oasresolve/resolver"
)

type resolveInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to resolve"`
}

type resolveOutput struct {
	Source         string   `json:"source"`
	Title          string   `json:"title,omitempty"`
	Version        string   `json:"version,omitempty"`
	OperationCount int      `json:"operation_count"`
	SchemaCount    int      `json:"schema_count"`
	SchemaNames    []string `json:"schema_names,omitempty"`
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	model, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	return nil, resolveOutput{
		Source:         string(model.Source),
		Title:          model.Title,
		Version:        model.Version,
		OperationCount: len(model.Operations),
		SchemaCount:    model.Schemas.Len(),
		SchemaNames:    model.Schemas.Names(),
	}, nil
}

type listSchemasInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to resolve"`
}

type schemaSummary struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Type          string `json:"type,omitempty"`
	PropertyCount int    `json:"property_count,omitempty"`
	Composition   string `json:"composition,omitempty"`
}

type listSchemasOutput struct {
	Schemas []schemaSummary `json:"schemas"`
}

func handleListSchemas(_ context.Context, _ *mcp.CallToolRequest, input listSchemasInput) (*mcp.CallToolResult, listSchemasOutput, error) {
	model, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), listSchemasOutput{}, nil
	}

	out := listSchemasOutput{Schemas: make([]schemaSummary, 0, model.Schemas.Len())}
	for name, s := range model.Schemas.All() {
		summary := schemaSummary{
			Name:        name,
			Kind:        string(s.Kind),
			Type:        s.Type,
			Composition: string(s.Composition),
		}
		if s.Properties != nil {
			summary.PropertyCount = s.Properties.Len()
		}
		out.Schemas = append(out.Schemas, summary)
	}
	return nil, out, nil
}

type getSchemaInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to resolve"`
	Name string    `json:"name" jsonschema:"Registry name of the schema to fetch"`
}

type getSchemaOutput struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

func handleGetSchema(_ context.Context, _ *mcp.CallToolRequest, input getSchemaInput) (*mcp.CallToolResult, getSchemaOutput, error) {
	model, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), getSchemaOutput{}, nil
	}

	s, ok := model.Schemas.Lookup(input.Name)
	if !ok {
		return errResult(fmt.Errorf("schema %q not found; known names: %v", input.Name, model.Schemas.Names())), getSchemaOutput{}, nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return errResult(err), getSchemaOutput{}, nil
	}
	return nil, getSchemaOutput{Name: input.Name, Schema: data}, nil
}

type listOperationsInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to resolve"`
}

type operationSummary struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	OperationID string            `json:"operation_id,omitempty"`
	Parameters  []string          `json:"parameters,omitempty"`
	RequestBody string            `json:"request_body,omitempty"`
	Responses   map[string]string `json:"responses,omitempty"`
}

type listOperationsOutput struct {
	Operations []operationSummary `json:"operations"`
}

func handleListOperations(_ context.Context, _ *mcp.CallToolRequest, input listOperationsInput) (*mcp.CallToolResult, listOperationsOutput, error) {
	model, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), listOperationsOutput{}, nil
	}

	out := listOperationsOutput{Operations: make([]operationSummary, 0, len(model.Operations))}
	for _, op := range model.Operations {
		summary := operationSummary{
			Method:      op.Method,
			Path:        op.Path,
			OperationID: op.OperationID,
		}
		for _, p := range op.Parameters {
			summary.Parameters = append(summary.Parameters, p.Name)
		}
		if op.RequestBody != nil {
			summary.RequestBody = schemaLabel(model, op.RequestBody.Schema)
		}
		if op.Responses != nil {
			summary.Responses = make(map[string]string, op.Responses.Len())
			for code, resp := range op.Responses.All() {
				summary.Responses[code] = schemaLabel(model, resp.Schema)
			}
		}
		out.Operations = append(out.Operations, summary)
	}
	return nil, out, nil
}

// schemaLabel renders a schema reference for summaries: the registry name
// when it has one, the kind otherwise.
func schemaLabel(model *resolver.Model, n resolver.SchemaNode) string {
	switch v := n.(type) {
	case *resolver.BackReference:
		if v.Name != "" {
			return v.Name
		}
		return v.Key.String()
	case *resolver.Schema:
		if name, ok := model.Schemas.NameFor(v); ok {
			return name
		}
		return string(v.Kind)
	}
	return ""
}
