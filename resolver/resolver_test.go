package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specfold/oasresolve/pointer"
	"github.com/specfold/oasresolve/reserrors"
)

// resolveFile is a test helper that resolves a testdata document.
func resolveFile(t *testing.T, path string, opts ...Option) *Model {
	t.Helper()
	model, err := ResolveWithOptions(append([]Option{WithFilePath(path)}, opts...)...)
	require.NoError(t, err)
	require.NotNil(t, model)
	return model
}

// TestResolve_Petstore verifies the full pipeline against the petstore
// fixture: named components, operations, and promoted inline schemas.
func TestResolve_Petstore(t *testing.T) {
	model := resolveFile(t, "../testdata/petstore.yaml")

	assert.Equal(t, "Petstore API", model.Title)
	assert.Equal(t, "1.0.0", model.Version)

	// named components first, promoted schemas after
	assert.Equal(t, []string{"Pet", "NewPet", "Error", "ListPetsResponse200", "GetPetResponse200"},
		model.Schemas.Names())

	// paths in declaration order, methods in fixed order within a path
	require.Len(t, model.Operations, 3)
	assert.Equal(t, "listPets", model.Operations[0].OperationID)
	assert.Equal(t, "createPet", model.Operations[1].OperationID)
	assert.Equal(t, "getPet", model.Operations[2].OperationID)
}

// TestResolve_PropertyOrderPreserved verifies that resolved properties
// iterate in source declaration order, not alphabetically.
func TestResolve_PropertyOrderPreserved(t *testing.T) {
	model := resolveFile(t, "../testdata/petstore.yaml")

	pet, ok := model.Schemas.Lookup("Pet")
	require.True(t, ok)
	require.NotNil(t, pet.Properties)

	var names []string
	for name := range pet.Properties.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"id", "name", "tag", "friend"}, names)
}

// TestResolve_ReferentialTransparency verifies that every $ref to the
// same component resolves to the same schema instance.
func TestResolve_ReferentialTransparency(t *testing.T) {
	model := resolveFile(t, "../testdata/petstore.yaml")

	pet, ok := model.Schemas.Lookup("Pet")
	require.True(t, ok)

	// listPets 200 is an array of Pet
	listPets := model.Operations[0]
	resp, ok := listPets.Responses.Get("200")
	require.True(t, ok)
	arr, ok := resp.Schema.(*Schema)
	require.True(t, ok)
	assert.Equal(t, KindArray, arr.Kind)
	assert.Same(t, pet, arr.Items)

	// createPet 201 is Pet directly
	createPet := model.Operations[1]
	resp, ok = createPet.Responses.Get("201")
	require.True(t, ok)
	assert.Same(t, pet, resp.Schema)
}

// TestResolve_SelfReferentialSchema verifies that a schema referencing
// itself resolves to a back-reference carrying the registry name.
func TestResolve_SelfReferentialSchema(t *testing.T) {
	model := resolveFile(t, "../testdata/petstore.yaml")

	pet, ok := model.Schemas.Lookup("Pet")
	require.True(t, ok)

	friend, ok := pet.Properties.Get("friend")
	require.True(t, ok)
	backref, ok := friend.(*BackReference)
	require.True(t, ok, "self-reference must resolve to a back-reference, got %T", friend)
	assert.Equal(t, "Pet", backref.Name)
	assert.Equal(t, "/components/schemas/Pet", backref.Key.Ptr)
}

// TestResolve_MutualCycle verifies A -> B -> A resolution: the second
// visit of A becomes a back-reference and both schemas resolve.
func TestResolve_MutualCycle(t *testing.T) {
	model := resolveFile(t, "../testdata/cyclic.yaml")

	alpha, ok := model.Schemas.Lookup("Alpha")
	require.True(t, ok)
	beta, ok := model.Schemas.Lookup("Beta")
	require.True(t, ok)

	// Alpha.beta inlines Beta; Beta.alpha is the back-edge
	betaProp, ok := alpha.Properties.Get("beta")
	require.True(t, ok)
	assert.Same(t, beta, betaProp)

	alphaProp, ok := beta.Properties.Get("alpha")
	require.True(t, ok)
	backref, ok := alphaProp.(*BackReference)
	require.True(t, ok, "cycle edge must be a back-reference, got %T", alphaProp)
	assert.Equal(t, "Alpha", backref.Name)
}

// TestResolve_ExternalReference verifies resolution across files and that
// external named components join the registry under their declared name.
func TestResolve_ExternalReference(t *testing.T) {
	model := resolveFile(t, "../testdata/orders.yaml")

	order, ok := model.Schemas.Lookup("Order")
	require.True(t, ok)
	money, ok := model.Schemas.Lookup("Money")
	require.True(t, ok)

	total, ok := order.Properties.Get("total")
	require.True(t, ok)
	assert.Same(t, money, total)

	currency, ok := money.Properties.Get("currency")
	require.True(t, ok)
	cs, ok := currency.(*Schema)
	require.True(t, ok)
	require.NotNil(t, cs.Constraints.MinLength)
	assert.Equal(t, 3, *cs.Constraints.MinLength)
}

// TestResolve_Deterministic verifies that two passes over the same input
// produce identical registries and operation lists.
func TestResolve_Deterministic(t *testing.T) {
	a := resolveFile(t, "../testdata/petstore.yaml")
	b := resolveFile(t, "../testdata/petstore.yaml")

	assert.Equal(t, a.Schemas.Names(), b.Schemas.Names())
	require.Equal(t, len(a.Operations), len(b.Operations))
	for i := range a.Operations {
		assert.Equal(t, a.Operations[i].Method, b.Operations[i].Method)
		assert.Equal(t, a.Operations[i].Path, b.Operations[i].Path)
	}
	for name, sa := range a.Schemas.All() {
		sb, ok := b.Schemas.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, fingerprint(sa), fingerprint(sb), "schema %s differs between passes", name)
	}
}

// TestResolve_JSONDocument verifies that JSON input resolves the same way
// YAML does.
func TestResolve_JSONDocument(t *testing.T) {
	model := resolveFile(t, "../testdata/petstore.json")

	pet, ok := model.Schemas.Lookup("Pet")
	require.True(t, ok)
	assert.Equal(t, KindObject, pet.Kind)
	assert.Equal(t, []string{"id", "name"}, pet.Required)
}

// TestResolve_Swagger2 verifies OAS 2 documents: definitions seed the
// registry and in:body parameters become the request body.
func TestResolve_Swagger2(t *testing.T) {
	model := resolveFile(t, "../testdata/petstore-v2.yaml")

	pet, ok := model.Schemas.Lookup("Pet")
	require.True(t, ok)

	require.Len(t, model.Operations, 1)
	op := model.Operations[0]
	assert.Equal(t, "addPet", op.OperationID)

	// the body parameter moved to RequestBody, the query parameter stayed
	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Required)
	assert.Same(t, pet, op.RequestBody.Schema)
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "verbose", op.Parameters[0].Name)
	assert.Equal(t, "query", op.Parameters[0].In)

	resp, ok := op.Responses.Get("200")
	require.True(t, ok)
	assert.Equal(t, "application/json", resp.MediaType)
	assert.Same(t, pet, resp.Schema)
}

// TestResolve_PathTraversalBlockedBeforeRead verifies that a reference
// escaping the sandbox fails with PathTraversalError even though the
// target file does not exist: the guard runs before any read.
func TestResolve_PathTraversalBlockedBeforeRead(t *testing.T) {
	dir := t.TempDir()
	doc := `openapi: 3.0.3
info:
  title: Escape
  version: 1.0.0
paths: {}
components:
  schemas:
    Evil:
      $ref: '../../../etc/passwd#/root'
`
	path := filepath.Join(dir, "escape.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := ResolveWithOptions(WithFilePath(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrPathTraversal)
	assert.NotErrorIs(t, err, reserrors.ErrDocumentNotFound)
}

// TestResolve_ReferenceNotFound verifies the error for a pointer into a
// missing component.
func TestResolve_ReferenceNotFound(t *testing.T) {
	doc := []byte(`openapi: 3.0.3
info:
  title: Broken
  version: 1.0.0
paths: {}
components:
  schemas:
    Thing:
      $ref: '#/components/schemas/Missing'
`)
	_, err := ResolveWithOptions(WithBytes("broken", doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrReferenceNotFound)

	var notFound *reserrors.ReferenceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Missing", notFound.Segment)
}

// TestResolve_NetworkRefRejected verifies that http(s) references fail as
// malformed pointers.
func TestResolve_NetworkRefRejected(t *testing.T) {
	doc := []byte(`openapi: 3.0.3
info:
  title: Remote
  version: 1.0.0
paths: {}
components:
  schemas:
    Remote:
      $ref: 'https://example.com/api.yaml#/components/schemas/Pet'
`)
	_, err := ResolveWithOptions(WithBytes("remote", doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrMalformedPointer)
}

// TestResolve_MaxRefDepth verifies the nesting guard for deep but
// non-circular schemas.
func TestResolve_MaxRefDepth(t *testing.T) {
	doc := []byte(`openapi: 3.0.3
info:
  title: Deep
  version: 1.0.0
paths: {}
components:
  schemas:
    Deep:
      type: object
      properties:
        a:
          type: object
          properties:
            b:
              type: object
              properties:
                c:
                  type: object
                  properties:
                    d:
                      type: string
`)
	_, err := ResolveWithOptions(WithBytes("deep", doc), WithMaxRefDepth(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrResourceLimit)

	// generous limit resolves fine
	_, err = ResolveWithOptions(WithBytes("deep", doc), WithMaxRefDepth(50))
	assert.NoError(t, err)
}

// TestResolve_CycleDoesNotCountAgainstDepth verifies that circular
// references resolve even with a small depth limit.
func TestResolve_CycleDoesNotCountAgainstDepth(t *testing.T) {
	model := resolveFile(t, "../testdata/cyclic.yaml", WithMaxRefDepth(10))
	_, ok := model.Schemas.Lookup("Node")
	assert.True(t, ok)
}

// TestComponentNameForKey covers both component section layouts.
func TestComponentNameForKey(t *testing.T) {
	tests := []struct {
		ptr  string
		name string
		ok   bool
	}{
		{"/components/schemas/Pet", "Pet", true},
		{"/definitions/Pet", "Pet", true},
		{"/components/schemas/Pet/properties/id", "", false},
		{"/paths/~1pets/get", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		name, ok := componentNameForKey(pointer.ReferenceKey{Doc: "doc", Ptr: tt.ptr})
		assert.Equal(t, tt.ok, ok, "ptr %q", tt.ptr)
		assert.Equal(t, tt.name, name, "ptr %q", tt.ptr)
	}
}

// TestUniqueSorted covers the required-list normalization helper.
func TestUniqueSorted(t *testing.T) {
	assert.Nil(t, uniqueSorted(nil))
	assert.Equal(t, []string{"a"}, uniqueSorted([]string{"a"}))
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a"}))
}
