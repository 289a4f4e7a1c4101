package resolver

import (
	"fmt"
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/specfold/oasresolve/pointer"
)

// SchemaRegistry is the single namespace mapping schema names to resolved
// schemas. Originally named components are registered first; the inline
// schema promoter is the only component permitted to add entries after
// that. Every name is unique; collisions resolve deterministically by
// structural deduplication or numeric suffixing, never by overwriting.
//
// A registry is scoped to one resolution pass and read-only afterwards.
type SchemaRegistry struct {
	schemas *sequencedmap.Map[string, *Schema]
	// names maps schema identity back to its registry name
	names map[*Schema]string
	// keyNames maps reference keys to registry names, for back-reference
	// naming
	keyNames map[pointer.ReferenceKey]string
	// fingerprints maps structural hashes to the first name registered
	// with that structure, for promoted-schema deduplication
	fingerprints map[string]string
}

// NewSchemaRegistry creates an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		schemas:      sequencedmap.New[string, *Schema](),
		names:        make(map[*Schema]string),
		keyNames:     make(map[pointer.ReferenceKey]string),
		fingerprints: make(map[string]string),
	}
}

// Len returns the number of registered schemas.
func (r *SchemaRegistry) Len() int {
	return r.schemas.Len()
}

// Lookup returns the schema registered under name.
func (r *SchemaRegistry) Lookup(name string) (*Schema, bool) {
	return r.schemas.Get(name)
}

// NameFor returns the registry name of a schema instance.
func (r *SchemaRegistry) NameFor(s *Schema) (string, bool) {
	name, ok := r.names[s]
	return name, ok
}

// NameForKey returns the registry name bound to a reference key.
func (r *SchemaRegistry) NameForKey(key pointer.ReferenceKey) (string, bool) {
	name, ok := r.keyNames[key]
	return name, ok
}

// All iterates (name, schema) pairs in registration order.
func (r *SchemaRegistry) All() iter.Seq2[string, *Schema] {
	return r.schemas.All()
}

// Names returns the registered names in registration order.
func (r *SchemaRegistry) Names() []string {
	names := make([]string, 0, r.schemas.Len())
	for name := range r.schemas.Keys() {
		names = append(names, name)
	}
	return names
}

// MarshalJSON renders the registry as an object in registration order.
func (r *SchemaRegistry) MarshalJSON() ([]byte, error) {
	return r.schemas.MarshalJSON()
}

// Register binds a named component schema, associating it with its
// reference key. If the name is already bound to a structurally identical
// schema (the same component reached through different documents), the
// existing entry is reused; a structurally different schema under the
// same name gets a numeric suffix.
func (r *SchemaRegistry) Register(name string, s *Schema, key pointer.ReferenceKey) string {
	bound := r.bind(name, s)
	if _, taken := r.keyNames[key]; !taken {
		r.keyNames[key] = bound
	}
	return bound
}

// BindPromoted registers a promoted inline schema under the candidate
// name. Structurally identical schemas deduplicate onto a single entry
// regardless of candidate name; otherwise the candidate gets a numeric
// suffix until a free name is found. The returned schema is the canonical
// registry instance: callers must substitute it for their own copy.
func (r *SchemaRegistry) BindPromoted(candidate string, s *Schema) (string, *Schema, bool) {
	if name, ok := r.names[s]; ok {
		return name, s, true
	}

	fp := fingerprint(s)
	if name, ok := r.fingerprints[fp]; ok {
		canonical, _ := r.schemas.Get(name)
		return name, canonical, true
	}

	name := r.freeName(candidate, fp)
	r.insert(name, s, fp)
	return name, s, false
}

// bind implements Register's collision policy: dedup on identical
// structure under the same name, suffix otherwise.
func (r *SchemaRegistry) bind(candidate string, s *Schema) string {
	if name, ok := r.names[s]; ok {
		return name
	}

	fp := fingerprint(s)
	if existing, ok := r.schemas.Get(candidate); ok {
		if fingerprint(existing) == fp {
			r.names[s] = candidate
			return candidate
		}
	}

	name := r.freeName(candidate, fp)
	r.insert(name, s, fp)
	return name
}

// freeName returns candidate or the first suffixed variant (Name2, Name3,
// ...) not yet registered. If a suffixed variant is already bound to the
// same structure, that variant is reported free so insert dedups onto it.
func (r *SchemaRegistry) freeName(candidate, fp string) string {
	name := candidate
	for i := 2; ; i++ {
		existing, taken := r.schemas.Get(name)
		if !taken {
			return name
		}
		if fingerprint(existing) == fp {
			return name
		}
		name = fmt.Sprintf("%s%d", candidate, i)
	}
}

// insert stores the schema unless the name already holds the identical
// structure, in which case the existing binding wins.
func (r *SchemaRegistry) insert(name string, s *Schema, fp string) {
	if _, ok := r.schemas.Get(name); ok {
		// freeName only returns a taken name when it already holds the
		// same structure; reuse that binding.
		r.names[s] = name
		return
	}
	r.schemas.Set(name, s)
	r.names[s] = name
	if _, ok := r.fingerprints[fp]; !ok {
		r.fingerprints[fp] = name
	}
}
