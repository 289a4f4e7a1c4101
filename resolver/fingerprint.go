package resolver

import (
	"github.com/speakeasy-api/openapi/hashing"
)

// fingerprint computes a deterministic structural hash of a schema.
// Two schemas with the same fingerprint are structurally identical for
// the purposes of registry deduplication: description is ignored,
// property order is ignored, branch order and enum order are not.
func fingerprint(s *Schema) string {
	return hashing.Hash(canonicalForm(s, make(map[*Schema]bool)))
}

// canonicalForm reduces a schema graph to plain maps, slices, and scalars
// so the hash is independent of Go representation details. Cycles through
// shared *Schema values collapse to a marker; back-references hash by
// their target key.
func canonicalForm(n SchemaNode, seen map[*Schema]bool) any {
	switch v := n.(type) {
	case nil:
		return nil
	case *BackReference:
		return "backref:" + v.Key.String()
	case *Schema:
		if v == nil {
			return nil
		}
		if seen[v] {
			return "recursive"
		}
		seen[v] = true
		defer delete(seen, v)

		m := map[string]any{
			"kind": string(v.Kind),
		}
		if v.Type != "" {
			m["type"] = v.Type
		}
		if v.Format != "" {
			m["format"] = v.Format
		}
		if v.Properties != nil && v.Properties.Len() > 0 {
			props := make(map[string]any, v.Properties.Len())
			for name, child := range v.Properties.All() {
				props[name] = canonicalForm(child, seen)
			}
			m["properties"] = props
		}
		if len(v.Required) > 0 {
			m["required"] = v.Required
		}
		if v.Items != nil {
			m["items"] = canonicalForm(v.Items, seen)
		}
		if len(v.Enum) > 0 {
			m["enum"] = v.Enum
		}
		if !v.Constraints.IsZero() {
			m["constraints"] = constraintsForm(v.Constraints)
		}
		if v.Composition != "" {
			m["composition"] = string(v.Composition)
			branches := make([]any, len(v.Branches))
			for i, b := range v.Branches {
				branches[i] = canonicalForm(b, seen)
			}
			m["branches"] = branches
		}
		return m
	default:
		return nil
	}
}

func constraintsForm(c Constraints) map[string]any {
	m := make(map[string]any)
	if c.Pattern != "" {
		m["pattern"] = c.Pattern
	}
	if c.Minimum != nil {
		m["minimum"] = *c.Minimum
	}
	if c.Maximum != nil {
		m["maximum"] = *c.Maximum
	}
	if c.MinLength != nil {
		m["minLength"] = *c.MinLength
	}
	if c.MaxLength != nil {
		m["maxLength"] = *c.MaxLength
	}
	if c.MinItems != nil {
		m["minItems"] = *c.MinItems
	}
	if c.MaxItems != nil {
		m["maxItems"] = *c.MaxItems
	}
	if c.UniqueItems {
		m["uniqueItems"] = true
	}
	return m
}
