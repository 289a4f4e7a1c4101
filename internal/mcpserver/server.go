// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes reference resolution as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specfold/oasresolve"
)

const serverInstructions = `oasresolve MCP server — resolves OpenAPI/JSON-Schema documents into a fully dereferenced model.

Tools:
- resolve: resolve a document and return a summary (operation count, schema names)
- list_schemas: list every schema in the resolved registry, named components and promoted inline schemas alike
- get_schema: fetch one resolved schema by registry name
- list_operations: list resolved operations with their parameter and response shapes

All tools accept the document as a file path or inline content. External $ref targets are confined to the document's directory unless sandbox_root widens it. Network references are never followed.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasresolve", Version: oasresolve.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve an OpenAPI or JSON-Schema document: follow every $ref, flatten allOf/oneOf/anyOf, and promote anonymous schemas to named ones. Returns a summary with the registry names and operation count. Circular references resolve to back-references and are not errors.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_schemas",
		Description: "List every schema in the resolved registry in registration order: originally named components first, then promoted inline schemas. Each entry reports its name, kind (scalar, object, array, composed), and property count.",
	}, handleListSchemas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_schema",
		Description: "Fetch one resolved schema by registry name as JSON. Properties appear in source declaration order; cycle edges appear as {\"$backref\": name} markers.",
	}, handleGetSchema)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_operations",
		Description: "List resolved operations: method, path, operationId, parameter names, request body schema name, and response schema names per status code.",
	}, handleListOperations)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
