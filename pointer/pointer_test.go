package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v4"

	"github.com/specfold/oasresolve/reserrors"
)

// TestParse covers fragment decoding including RFC 6901 escapes.
func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     Pointer
	}{
		{"empty", "", nil},
		{"bare hash", "#", nil},
		{"simple", "#/components/schemas/Pet", Pointer{"components", "schemas", "Pet"}},
		{"no hash prefix", "/definitions/Pet", Pointer{"definitions", "Pet"}},
		{"escaped slash", "#/paths/~1pets~1{petId}/get", Pointer{"paths", "/pets/{petId}", "get"}},
		{"escaped tilde", "#/a~0b", Pointer{"a~b"}},
		{"tilde then digit", "#/a~01", Pointer{"a~1"}},
		{"empty segment", "#//x", Pointer{"", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.fragment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParse_Malformed covers rejected fragments.
func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{"plain name fragment", "#foo"},
		{"missing leading slash", "components/schemas/Pet"},
		{"bare tilde", "#/a~b"},
		{"trailing tilde", "#/a~"},
		{"tilde bad digit", "#/a~2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.fragment)
			require.Error(t, err)
			assert.ErrorIs(t, err, reserrors.ErrMalformedPointer)
		})
	}
}

// TestPointer_StringRoundTrip verifies encoding is the inverse of parsing.
func TestPointer_StringRoundTrip(t *testing.T) {
	for _, fragment := range []string{
		"/components/schemas/Pet",
		"/paths/~1pets~1{petId}/get",
		"/a~0b/c~1d",
	} {
		p, err := Parse(fragment)
		require.NoError(t, err)
		assert.Equal(t, fragment, p.String())
	}
	assert.Equal(t, "", Pointer(nil).String())
}

// TestPointer_Evaluate walks a small document tree.
func TestPointer_Evaluate(t *testing.T) {
	doc := []byte(`components:
  schemas:
    Pet:
      type: object
paths:
  /pets:
    get:
      tags:
        - pets
        - animals
`)
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal(doc, &root))

	t.Run("mapping walk", func(t *testing.T) {
		p, _ := Parse("#/components/schemas/Pet/type")
		node, _, ok := p.Evaluate(&root)
		require.True(t, ok)
		assert.Equal(t, "object", node.Value)
	})

	t.Run("escaped path segment", func(t *testing.T) {
		p, _ := Parse("#/paths/~1pets/get")
		node, _, ok := p.Evaluate(&root)
		require.True(t, ok)
		assert.Equal(t, yaml.MappingNode, node.Kind)
	})

	t.Run("sequence index", func(t *testing.T) {
		p, _ := Parse("#/paths/~1pets/get/tags/1")
		node, _, ok := p.Evaluate(&root)
		require.True(t, ok)
		assert.Equal(t, "animals", node.Value)
	})

	t.Run("empty pointer is the document", func(t *testing.T) {
		p, _ := Parse("")
		node, _, ok := p.Evaluate(&root)
		require.True(t, ok)
		assert.Equal(t, yaml.MappingNode, node.Kind)
	})

	t.Run("missing segment reported", func(t *testing.T) {
		p, _ := Parse("#/components/schemas/Missing")
		_, missing, ok := p.Evaluate(&root)
		require.False(t, ok)
		assert.Equal(t, "Missing", missing)
	})

	t.Run("index out of range", func(t *testing.T) {
		p, _ := Parse("#/paths/~1pets/get/tags/7")
		_, missing, ok := p.Evaluate(&root)
		require.False(t, ok)
		assert.Equal(t, "7", missing)
	})

	t.Run("index into mapping fails", func(t *testing.T) {
		p, _ := Parse("#/paths/~1pets/get/tags/abc")
		_, _, ok := p.Evaluate(&root)
		assert.False(t, ok)
	})
}
