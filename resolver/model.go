package resolver

import (
	"go.yaml.in/yaml/v4"

	"github.com/specfold/oasresolve/document"
	"github.com/specfold/oasresolve/internal/nodeutil"
	"github.com/specfold/oasresolve/pointer"
)

// Model is the immutable output of a resolution pass: every operation of
// the root document with fully resolved schemas, plus the registry of all
// named schemas (original components and promoted inline schemas).
//
// A Model is safe for concurrent reads. Nothing mutates it after
// ResolveWithOptions returns.
type Model struct {
	// Source identifies the root document.
	Source document.ID `json:"source"`
	// Title is the document's info.title, carried through for reporting.
	Title string `json:"title,omitempty"`
	// Version is the document's info.version.
	Version string `json:"version,omitempty"`
	// Operations lists every operation, paths in declaration order and
	// methods in fixed HTTP order within a path.
	Operations []*Operation `json:"operations"`
	// Schemas is the unified schema namespace.
	Schemas *SchemaRegistry `json:"schemas"`
}

// buildModel runs the full pipeline against a loaded root document:
// named components first, then operations, then inline schema promotion,
// then back-reference naming.
func buildModel(store *document.Store, rootID document.ID, log Logger, maxDepth int) (*Model, error) {
	root := store.Node(rootID)

	g := newGraphResolver(store, log, maxDepth)
	registry := NewSchemaRegistry()

	if err := seedComponents(g, registry, root, rootID); err != nil {
		return nil, err
	}

	ops, err := g.buildOperations(root, rootID)
	if err != nil {
		return nil, err
	}

	// Components from other documents that resolution pulled in get
	// registered under their declared names, in resolution finish order.
	for _, nc := range g.named {
		if _, ok := registry.NameForKey(nc.key); !ok {
			registry.Register(nc.name, nc.schema, nc.key)
		}
	}

	promoteInlineSchemas(registry, ops, log)
	nameBackReferences(registry, ops)

	m := &Model{
		Source:     rootID,
		Operations: ops,
		Schemas:    registry,
	}
	if info := nodeutil.MapValue(root, "info"); info != nil {
		m.Title, _ = nodeutil.ScalarString(nodeutil.MapValue(info, "title"))
		m.Version, _ = nodeutil.ScalarString(nodeutil.MapValue(info, "version"))
	}
	return m, nil
}

// seedComponents resolves the root document's named schemas in declaration
// order so they claim their names before any promotion happens. Both the
// components/schemas (OAS 3) and definitions (OAS 2) sections are walked.
func seedComponents(g *graphResolver, registry *SchemaRegistry, root *yaml.Node, rootID document.ID) error {
	sections := []struct {
		node   *yaml.Node
		prefix []string
	}{
		{nodeutil.MapValue(nodeutil.MapValue(root, "components"), "schemas"), []string{"components", "schemas"}},
		{nodeutil.MapValue(root, "definitions"), []string{"definitions"}},
	}

	for _, section := range sections {
		if section.node == nil {
			continue
		}
		for name, raw := range nodeutil.Pairs(section.node) {
			ptr := pointer.Pointer(append(append([]string{}, section.prefix...), name))
			key := pointer.ReferenceKey{Doc: rootID, Ptr: ptr.String()}
			resolved, err := g.resolveKey(key, raw, 0)
			if err != nil {
				return err
			}
			if s, ok := resolved.(*Schema); ok {
				registry.Register(name, s, key)
			}
		}
	}
	return nil
}

// nameBackReferences fills in BackReference.Name from the registry once
// all names are final. Back-references into the middle of another schema
// have no registry name and keep their key as the only identity.
func nameBackReferences(registry *SchemaRegistry, ops []*Operation) {
	seen := make(map[*Schema]bool)
	var walk func(n SchemaNode)
	walk = func(n SchemaNode) {
		switch v := n.(type) {
		case *BackReference:
			if name, ok := registry.NameForKey(v.Key); ok {
				v.Name = name
			}
		case *Schema:
			if v == nil || seen[v] {
				return
			}
			seen[v] = true
			if v.Properties != nil {
				for _, child := range v.Properties.All() {
					walk(child)
				}
			}
			walk(v.Items)
			for _, branch := range v.Branches {
				walk(branch)
			}
		}
	}

	for _, s := range registry.schemas.All() {
		walk(s)
	}
	for _, op := range ops {
		for _, p := range op.Parameters {
			walk(p.Schema)
		}
		if op.RequestBody != nil {
			walk(op.RequestBody.Schema)
		}
		if op.Responses != nil {
			for _, resp := range op.Responses.All() {
				walk(resp.Schema)
			}
		}
	}
}
