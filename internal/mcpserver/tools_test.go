package mcpserver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreDoc = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: a pet
          content:
            application/json:
              schema:
                type: object
                properties:
                  name:
                    type: string
components:
  schemas:
    Pet:
      type: object
      properties:
        id:
          type: integer
        name:
          type: string
`

// TestHandleResolve_Content verifies the summary output for inline input.
func TestHandleResolve_Content(t *testing.T) {
	result, out, err := handleResolve(context.Background(), nil, resolveInput{
		Spec: specInput{Content: petstoreDoc},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "Petstore", out.Title)
	assert.Equal(t, 1, out.OperationCount)
	assert.Equal(t, []string{"Pet", "GetPetResponse200"}, out.SchemaNames)
}

// TestHandleResolve_InvalidInput verifies input validation surfaces as an
// MCP error result, not a Go error.
func TestHandleResolve_InvalidInput(t *testing.T) {
	result, _, err := handleResolve(context.Background(), nil, resolveInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	result, _, err = handleResolve(context.Background(), nil, resolveInput{
		Spec: specInput{File: "a.yaml", Content: "openapi: 3.0.3"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

// TestHandleListSchemas covers the registry listing.
func TestHandleListSchemas(t *testing.T) {
	result, out, err := handleListSchemas(context.Background(), nil, listSchemasInput{
		Spec: specInput{Content: petstoreDoc},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	require.Len(t, out.Schemas, 2)
	assert.Equal(t, "Pet", out.Schemas[0].Name)
	assert.Equal(t, "object", out.Schemas[0].Kind)
	assert.Equal(t, 2, out.Schemas[0].PropertyCount)
}

// TestHandleGetSchema covers lookup hits and misses.
func TestHandleGetSchema(t *testing.T) {
	result, out, err := handleGetSchema(context.Background(), nil, getSchemaInput{
		Spec: specInput{Content: petstoreDoc},
		Name: "Pet",
	})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, "Pet", out.Name)
	assert.Contains(t, string(out.Schema), `"kind":"object"`)

	result, _, err = handleGetSchema(context.Background(), nil, getSchemaInput{
		Spec: specInput{Content: petstoreDoc},
		Name: "Ghost",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

// TestHandleListOperations covers the operation summaries.
func TestHandleListOperations(t *testing.T) {
	result, out, err := handleListOperations(context.Background(), nil, listOperationsInput{
		Spec: specInput{Content: petstoreDoc},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	require.Len(t, out.Operations, 1)
	op := out.Operations[0]
	assert.Equal(t, "get", op.Method)
	assert.Equal(t, "/pets/{petId}", op.Path)
	assert.Equal(t, "getPet", op.OperationID)
	assert.Equal(t, []string{"petId"}, op.Parameters)
	assert.Equal(t, "GetPetResponse200", op.Responses["200"])
}

// TestSanitizeError verifies filesystem paths are scrubbed from tool
// errors.
func TestSanitizeError(t *testing.T) {
	err := errors.New("document not found: /home/user/secrets/api.yaml: no such file")
	msg := sanitizeError(err)
	assert.NotContains(t, msg, "/home/user")
	assert.True(t, strings.Contains(msg, "<path>"))
	assert.Empty(t, sanitizeError(nil))
}
