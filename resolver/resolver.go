package resolver

import (
	"go.yaml.in/yaml/v4"

	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/specfold/oasresolve/document"
	"github.com/specfold/oasresolve/internal/nodeutil"
	"github.com/specfold/oasresolve/pointer"
	"github.com/specfold/oasresolve/reserrors"
)

// DefaultMaxRefDepth is the maximum depth allowed for nested schema
// resolution. Cycles are handled separately via back-references; this
// limit only guards against pathologically deep non-circular nesting.
const DefaultMaxRefDepth = 100

// resolutionState tracks where a reference key is in the current pass.
type resolutionState int

const (
	stateUnvisited resolutionState = iota
	stateInProgress
	stateResolved
)

// namedComponent records a schema discovered under a component name
// (components/schemas/X or definitions/X) during resolution, in the order
// it finished resolving.
type namedComponent struct {
	name   string
	key    pointer.ReferenceKey
	schema *Schema
}

// graphResolver walks raw nodes and produces resolved schemas, replacing
// every $ref with either a fully resolved schema or a back-reference when
// the ref is already on the active resolution chain.
//
// State is scoped to one resolution pass: the states map doubles as the
// active chain (stateInProgress entries are exactly the keys currently
// being resolved on the call stack) and the cache guarantees each key
// resolves to a single canonical schema.
type graphResolver struct {
	store    *document.Store
	ptrs     *pointer.Resolver
	log      Logger
	maxDepth int

	states map[pointer.ReferenceKey]resolutionState
	cache  map[pointer.ReferenceKey]*Schema
	named  []namedComponent
}

func newGraphResolver(store *document.Store, log Logger, maxDepth int) *graphResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRefDepth
	}
	return &graphResolver{
		store:    store,
		ptrs:     pointer.NewResolver(store),
		log:      log,
		maxDepth: maxDepth,
		states:   make(map[pointer.ReferenceKey]resolutionState),
		cache:    make(map[pointer.ReferenceKey]*Schema),
	}
}

// resolveNode resolves a raw schema node in the context of doc.
func (g *graphResolver) resolveNode(node *yaml.Node, doc document.ID, depth int) (SchemaNode, error) {
	if depth > g.maxDepth {
		return nil, &reserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(g.maxDepth),
			Actual:       int64(depth),
			Message:      "schema too deeply nested",
		}
	}

	node = nodeutil.Deref(node)
	if ref, ok := nodeutil.ScalarString(nodeutil.MapValue(node, "$ref")); ok {
		key, target, err := g.ptrs.Resolve(ref, doc)
		if err != nil {
			return nil, err
		}
		return g.resolveKey(key, target, depth)
	}

	return g.buildSchema(node, doc, depth)
}

// resolveKey resolves the target of a reference key with cycle detection.
// A key already in progress is on the active chain: returning a
// back-reference instead of recursing is what keeps resolution bounded
// for self-referential schemas.
func (g *graphResolver) resolveKey(key pointer.ReferenceKey, target *yaml.Node, depth int) (SchemaNode, error) {
	switch g.states[key] {
	case stateInProgress:
		g.log.Debug("cycle detected, emitting back-reference", "key", key.String())
		return &BackReference{Key: key}, nil
	case stateResolved:
		if s, ok := g.cache[key]; ok {
			return s, nil
		}
		// A key can resolve to a bare back-reference when it is part of
		// a pure $ref chain onto itself; repeat that result.
		return &BackReference{Key: key}, nil
	}

	g.states[key] = stateInProgress
	resolved, err := g.resolveNode(target, key.Doc, depth+1)
	if err != nil {
		delete(g.states, key)
		return nil, err
	}
	g.states[key] = stateResolved

	if s, ok := resolved.(*Schema); ok {
		g.cache[key] = s
		if name, ok := componentNameForKey(key); ok {
			g.named = append(g.named, namedComponent{name: name, key: key, schema: s})
		}
	}
	return resolved, nil
}

// buildSchema constructs a resolved schema from a non-$ref mapping node,
// recursing through properties, items, and composition keywords.
// Property declaration order is preserved.
func (g *graphResolver) buildSchema(node *yaml.Node, doc document.ID, depth int) (*Schema, error) {
	s := &Schema{}
	if node == nil {
		s.Kind = KindScalar
		return s, nil
	}

	s.Type = schemaType(node)
	s.Format, _ = nodeutil.ScalarString(nodeutil.MapValue(node, "format"))
	s.Description, _ = nodeutil.ScalarString(nodeutil.MapValue(node, "description"))

	if props := nodeutil.MapValue(node, "properties"); props != nil {
		s.Properties = sequencedmap.New[string, SchemaNode]()
		for name, raw := range nodeutil.Pairs(props) {
			child, err := g.resolveNode(raw, doc, depth+1)
			if err != nil {
				return nil, err
			}
			s.Properties.Set(name, child)
		}
	}

	s.Required = uniqueSorted(nodeutil.StringSlice(nodeutil.MapValue(node, "required")))

	if items := nodeutil.MapValue(node, "items"); items != nil && items.Kind == yaml.MappingNode {
		child, err := g.resolveNode(items, doc, depth+1)
		if err != nil {
			return nil, err
		}
		s.Items = child
	}

	if enum := nodeutil.MapValue(node, "enum"); enum != nil {
		for item := range nodeutil.Items(enum) {
			s.Enum = append(s.Enum, nodeutil.ScalarValue(item))
		}
	}

	s.Constraints = readConstraints(node)

	for _, keyword := range []CompositionKind{CompositionAllOf, CompositionOneOf, CompositionAnyOf} {
		seq := nodeutil.MapValue(node, string(keyword))
		if seq == nil {
			continue
		}
		var branches []SchemaNode
		for item := range nodeutil.Items(seq) {
			branch, err := g.resolveNode(item, doc, depth+1)
			if err != nil {
				return nil, err
			}
			branches = append(branches, branch)
		}
		mergeComposition(s, keyword, branches)
	}

	s.Kind = classify(s)

	if s.Composition != "" {
		if err := checkRequiredSatisfied(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// resolveRawRef follows a non-schema $ref (path items, parameters,
// responses) to its raw node, returning the node and the document it
// lives in so nested resolution keeps the right context. Non-ref nodes
// pass through unchanged.
func (g *graphResolver) resolveRawRef(node *yaml.Node, doc document.ID) (*yaml.Node, document.ID, error) {
	node = nodeutil.Deref(node)
	ref, ok := nodeutil.ScalarString(nodeutil.MapValue(node, "$ref"))
	if !ok {
		return node, doc, nil
	}
	key, target, err := g.ptrs.Resolve(ref, doc)
	if err != nil {
		return nil, doc, err
	}
	return target, key.Doc, nil
}

// schemaType reads the "type" keyword, tolerating the OAS 3.1 array form
// by taking the first non-null entry.
func schemaType(node *yaml.Node) string {
	t := nodeutil.MapValue(node, "type")
	if t == nil {
		return ""
	}
	if v, ok := nodeutil.ScalarString(t); ok {
		return v
	}
	for _, v := range nodeutil.StringSlice(t) {
		if v != "null" {
			return v
		}
	}
	return ""
}

// readConstraints collects the supported validation keywords.
func readConstraints(node *yaml.Node) Constraints {
	var c Constraints
	c.Pattern, _ = nodeutil.ScalarString(nodeutil.MapValue(node, "pattern"))
	if v, ok := nodeutil.ScalarFloat(nodeutil.MapValue(node, "minimum")); ok {
		c.Minimum = &v
	}
	if v, ok := nodeutil.ScalarFloat(nodeutil.MapValue(node, "maximum")); ok {
		c.Maximum = &v
	}
	if v, ok := nodeutil.ScalarInt(nodeutil.MapValue(node, "minLength")); ok {
		c.MinLength = &v
	}
	if v, ok := nodeutil.ScalarInt(nodeutil.MapValue(node, "maxLength")); ok {
		c.MaxLength = &v
	}
	if v, ok := nodeutil.ScalarInt(nodeutil.MapValue(node, "minItems")); ok {
		c.MinItems = &v
	}
	if v, ok := nodeutil.ScalarInt(nodeutil.MapValue(node, "maxItems")); ok {
		c.MaxItems = &v
	}
	if v, ok := nodeutil.ScalarBool(nodeutil.MapValue(node, "uniqueItems")); ok {
		c.UniqueItems = v
	}
	return c
}

// componentNameForKey extracts the component name from keys of the form
// /components/schemas/<name> (OAS 3) or /definitions/<name> (OAS 2).
func componentNameForKey(key pointer.ReferenceKey) (string, bool) {
	ptr, err := pointer.Parse(key.Ptr)
	if err != nil {
		return "", false
	}
	switch {
	case len(ptr) == 3 && ptr[0] == "components" && ptr[1] == "schemas":
		return ptr[2], true
	case len(ptr) == 2 && ptr[0] == "definitions":
		return ptr[1], true
	}
	return "", false
}

// uniqueSorted sorts and deduplicates a string slice in place semantics.
func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	// insertion sort; required lists are tiny
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	deduped := out[:1]
	for _, v := range out[1:] {
		if v != deduped[len(deduped)-1] {
			deduped = append(deduped, v)
		}
	}
	return deduped
}
