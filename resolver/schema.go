package resolver

import (
	"encoding/json"

	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/specfold/oasresolve/pointer"
)

// Kind classifies a resolved schema. Downstream generators switch on Kind
// instead of probing for the presence of a "type" key.
type Kind string

const (
	// KindScalar covers strings, numbers, booleans, and untyped schemas.
	KindScalar Kind = "scalar"
	// KindObject covers schemas with properties or an explicit object type.
	KindObject Kind = "object"
	// KindArray covers schemas with items or an explicit array type.
	KindArray Kind = "array"
	// KindComposed covers schemas built from allOf/oneOf/anyOf; their
	// merged property set is canonical but the branch list is retained.
	KindComposed Kind = "composed"
)

// CompositionKind identifies which composition keyword produced a
// composed schema.
type CompositionKind string

const (
	// CompositionAllOf marks an allOf merge.
	CompositionAllOf CompositionKind = "allOf"
	// CompositionOneOf marks a oneOf merge.
	CompositionOneOf CompositionKind = "oneOf"
	// CompositionAnyOf marks an anyOf merge.
	CompositionAnyOf CompositionKind = "anyOf"
)

// SchemaNode is either a *Schema or a *BackReference. It is the resolved
// counterpart of a raw schema node: fully inlined except where inlining
// would recurse forever, in which case a BackReference stands in.
type SchemaNode interface {
	isSchemaNode()
}

// BackReference is a named pointer to a ReferenceKey, used in place of a
// Schema wherever inlining would recurse infinitely. It carries no
// ownership; it is purely a lookup key into the schema registry.
type BackReference struct {
	// Key is the canonical identity of the schema this back-edge targets.
	Key pointer.ReferenceKey
	// Name is the registry name of the target, filled in after promotion.
	// Empty when the cycle target is not registry-addressable (a $ref
	// into the middle of another schema).
	Name string
}

func (*BackReference) isSchemaNode() {}

// MarshalJSON renders the back-reference as {"$backref": name-or-key}.
func (b *BackReference) MarshalJSON() ([]byte, error) {
	target := b.Name
	if target == "" {
		target = b.Key.String()
	}
	return json.Marshal(map[string]string{"$backref": target})
}

// Constraints carries the value restrictions of a schema that downstream
// generators translate into validation code. Nil pointer fields mean the
// constraint is absent.
type Constraints struct {
	Pattern     string   `json:"pattern,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
	MinItems    *int     `json:"minItems,omitempty"`
	MaxItems    *int     `json:"maxItems,omitempty"`
	UniqueItems bool     `json:"uniqueItems,omitempty"`
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c == Constraints{}
}

// Schema is the canonical resolved form of a schema node. It is created
// once during a resolution pass and immutable afterwards; all composition
// has been flattened and no $ref remains anywhere beneath it.
type Schema struct {
	// Kind is the structural classification.
	Kind Kind `json:"kind"`
	// Type is the declared JSON-Schema type, when present.
	Type string `json:"type,omitempty"`
	// Format refines Type (e.g. "int64", "date-time").
	Format string `json:"format,omitempty"`
	// Description is carried through for documentation generators; it
	// does not participate in structural identity.
	Description string `json:"description,omitempty"`
	// Properties holds the resolved property schemas in declaration
	// order. Order is semantically meaningful for generated field order.
	Properties *sequencedmap.Map[string, SchemaNode] `json:"properties,omitempty"`
	// Required lists the required property names, sorted.
	Required []string `json:"required,omitempty"`
	// Items is the element schema of an array.
	Items SchemaNode `json:"items,omitempty"`
	// Enum lists the permitted scalar values, in declaration order.
	Enum []any `json:"enum,omitempty"`
	// Constraints carries value restrictions.
	Constraints Constraints `json:"constraints,omitzero"`
	// Composition records which keyword produced a composed schema.
	Composition CompositionKind `json:"composition,omitempty"`
	// Branches retains the resolved branch list of oneOf/anyOf schemas
	// for documentation purposes, plus any allOf branch that could not
	// be merged because it is a back-reference.
	Branches []SchemaNode `json:"branches,omitempty"`
}

func (*Schema) isSchemaNode() {}

// propertyCount returns the number of properties, tolerating nil.
func (s *Schema) propertyCount() int {
	if s.Properties == nil {
		return 0
	}
	return s.Properties.Len()
}

// classify derives the Kind of a fully built schema.
func classify(s *Schema) Kind {
	switch {
	case s.Composition != "":
		return KindComposed
	case s.Type == "object" || s.propertyCount() > 0:
		return KindObject
	case s.Type == "array" || s.Items != nil:
		return KindArray
	default:
		return KindScalar
	}
}
