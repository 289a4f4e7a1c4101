package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/specfold/oasresolve/pointer"
)

func objectSchema(props ...string) *Schema {
	s := &Schema{Kind: KindObject, Type: "object"}
	if len(props) > 0 {
		s.Properties = newProps(props...)
	}
	return s
}

func newProps(names ...string) *sequencedmap.Map[string, SchemaNode] {
	m := sequencedmap.New[string, SchemaNode]()
	for _, name := range names {
		m.Set(name, &Schema{Kind: KindScalar, Type: "string"})
	}
	return m
}

// TestRegistry_RegisterAndLookup covers the basic named-component flow.
func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewSchemaRegistry()
	pet := objectSchema("id", "name")
	key := pointer.ReferenceKey{Doc: "api.yaml", Ptr: "/components/schemas/Pet"}

	name := r.Register("Pet", pet, key)
	assert.Equal(t, "Pet", name)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Lookup("Pet")
	require.True(t, ok)
	assert.Same(t, pet, got)

	byKey, ok := r.NameForKey(key)
	require.True(t, ok)
	assert.Equal(t, "Pet", byKey)

	byInstance, ok := r.NameFor(pet)
	require.True(t, ok)
	assert.Equal(t, "Pet", byInstance)
}

// TestRegistry_SameNameIdenticalStructure verifies that registering the
// same name with a structurally identical schema reuses the entry.
func TestRegistry_SameNameIdenticalStructure(t *testing.T) {
	r := NewSchemaRegistry()
	a := objectSchema("id")
	b := objectSchema("id")

	r.Register("Pet", a, pointer.ReferenceKey{Doc: "a.yaml", Ptr: "/components/schemas/Pet"})
	name := r.Register("Pet", b, pointer.ReferenceKey{Doc: "b.yaml", Ptr: "/components/schemas/Pet"})

	assert.Equal(t, "Pet", name)
	assert.Equal(t, 1, r.Len())

	// both keys resolve to the single entry
	n, ok := r.NameForKey(pointer.ReferenceKey{Doc: "b.yaml", Ptr: "/components/schemas/Pet"})
	require.True(t, ok)
	assert.Equal(t, "Pet", n)
}

// TestRegistry_SameNameDifferentStructure verifies deterministic numeric
// suffixing when distinct schemas claim the same name.
func TestRegistry_SameNameDifferentStructure(t *testing.T) {
	r := NewSchemaRegistry()
	a := objectSchema("id")
	b := objectSchema("code")

	first := r.Register("Pet", a, pointer.ReferenceKey{Doc: "a.yaml", Ptr: "/components/schemas/Pet"})
	second := r.Register("Pet", b, pointer.ReferenceKey{Doc: "b.yaml", Ptr: "/components/schemas/Pet"})

	assert.Equal(t, "Pet", first)
	assert.Equal(t, "Pet2", second)
	assert.Equal(t, []string{"Pet", "Pet2"}, r.Names())
}

// TestRegistry_BindPromotedDedup verifies that structurally identical
// promoted schemas share one entry regardless of candidate name.
func TestRegistry_BindPromotedDedup(t *testing.T) {
	r := NewSchemaRegistry()
	a := objectSchema("id", "name")
	b := objectSchema("id", "name")

	nameA, canonA, existedA := r.BindPromoted("CreatePetRequest", a)
	require.False(t, existedA)
	assert.Equal(t, "CreatePetRequest", nameA)
	assert.Same(t, a, canonA)

	nameB, canonB, existedB := r.BindPromoted("UpdatePetRequest", b)
	assert.True(t, existedB)
	assert.Equal(t, "CreatePetRequest", nameB)
	assert.Same(t, a, canonB)

	assert.Equal(t, 1, r.Len())
}

// TestRegistry_BindPromotedSuffix verifies suffixing when distinct
// promoted schemas generate the same candidate name.
func TestRegistry_BindPromotedSuffix(t *testing.T) {
	r := NewSchemaRegistry()
	a := objectSchema("id")
	b := objectSchema("code")
	c := objectSchema("status")

	nameA, _, _ := r.BindPromoted("Response", a)
	nameB, _, _ := r.BindPromoted("Response", b)
	nameC, _, _ := r.BindPromoted("Response", c)

	assert.Equal(t, "Response", nameA)
	assert.Equal(t, "Response2", nameB)
	assert.Equal(t, "Response3", nameC)
	assert.Equal(t, []string{"Response", "Response2", "Response3"}, r.Names())
}

// TestRegistry_PromotedNeverShadowsComponent verifies a promoted schema
// cannot displace an originally named component.
func TestRegistry_PromotedNeverShadowsComponent(t *testing.T) {
	r := NewSchemaRegistry()
	component := objectSchema("id")
	r.Register("Pet", component, pointer.ReferenceKey{Doc: "a.yaml", Ptr: "/components/schemas/Pet"})

	inline := objectSchema("totally", "different")
	name, canonical, existed := r.BindPromoted("Pet", inline)

	assert.False(t, existed)
	assert.Equal(t, "Pet2", name)
	assert.Same(t, inline, canonical)

	kept, _ := r.Lookup("Pet")
	assert.Same(t, component, kept)
}

// TestFingerprint_Stability verifies structural hashing ignores
// description and property order but not structure.
func TestFingerprint_Stability(t *testing.T) {
	a := objectSchema("id", "name")
	a.Description = "a pet"
	b := objectSchema("name", "id")
	b.Description = "something else entirely"

	assert.Equal(t, fingerprint(a), fingerprint(b))

	c := objectSchema("id")
	assert.NotEqual(t, fingerprint(a), fingerprint(c))
}

// TestFingerprint_Cycles verifies hashing terminates on self-referential
// schemas.
func TestFingerprint_Cycles(t *testing.T) {
	s := objectSchema()
	s.Properties = sequencedmap.New[string, SchemaNode]()
	s.Properties.Set("self", s)

	assert.NotEmpty(t, fingerprint(s))
	assert.Equal(t, fingerprint(s), fingerprint(s))
}
