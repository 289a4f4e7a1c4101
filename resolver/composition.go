package resolver

import (
	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/specfold/oasresolve/reserrors"
)

// mergeComposition folds resolved composition branches into s.
//
// For allOf, schema branches merge into the base schema: properties are
// combined (a later declaration of the same property name wins but keeps
// the position of its first declaration), required lists are unioned, and
// scalar facets overlay left to right with the base schema's own
// declarations applied first. Back-reference branches cannot be merged
// and are retained in Branches instead.
//
// For oneOf and anyOf, branches are not merged; the full branch list is
// retained so downstream generators can emit unions. Schema branches
// still contribute their properties to the merged view so consumers that
// flatten unions see the complete property surface.
func mergeComposition(s *Schema, keyword CompositionKind, branches []SchemaNode) {
	s.Composition = keyword

	switch keyword {
	case CompositionAllOf:
		for _, branch := range branches {
			sub, ok := branch.(*Schema)
			if !ok {
				s.Branches = append(s.Branches, branch)
				continue
			}
			mergeInto(s, sub)
		}
	case CompositionOneOf, CompositionAnyOf:
		s.Branches = append(s.Branches, branches...)
		for _, branch := range branches {
			if sub, ok := branch.(*Schema); ok {
				s.Properties = mergeProperties(s.Properties, sub.Properties)
			}
		}
	}
}

// mergeInto overlays sub onto s for allOf merging.
func mergeInto(s, sub *Schema) {
	s.Properties = mergeProperties(s.Properties, sub.Properties)
	s.Required = unionRequired(s.Required, sub.Required)
	if sub.Type != "" {
		s.Type = sub.Type
	}
	if sub.Format != "" {
		s.Format = sub.Format
	}
	if s.Description == "" {
		s.Description = sub.Description
	}
	if sub.Items != nil {
		s.Items = sub.Items
	}
	if len(sub.Enum) > 0 {
		s.Enum = sub.Enum
	}
	overlayConstraints(&s.Constraints, sub.Constraints)
}

// mergeProperties combines two ordered property maps. Keys present in
// both take the value from src but keep their position in dst; keys only
// in src append in src order. A fresh map is always returned: sequencedmap
// appends a duplicate entry when Set is called with an existing key, so
// in-place override is not safe.
func mergeProperties(dst, src *sequencedmap.Map[string, SchemaNode]) *sequencedmap.Map[string, SchemaNode] {
	if src == nil || src.Len() == 0 {
		return dst
	}
	if dst == nil || dst.Len() == 0 {
		return src
	}

	merged := sequencedmap.New[string, SchemaNode]()
	for name, node := range dst.All() {
		if override, ok := src.Get(name); ok {
			merged.Set(name, override)
		} else {
			merged.Set(name, node)
		}
	}
	for name, node := range src.All() {
		if _, ok := merged.Get(name); !ok {
			merged.Set(name, node)
		}
	}
	return merged
}

// unionRequired returns the sorted union of two required lists.
func unionRequired(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return uniqueSorted(b)
	}
	return uniqueSorted(append(append([]string{}, a...), b...))
}

// overlayConstraints applies every constraint set in src over dst.
func overlayConstraints(dst *Constraints, src Constraints) {
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.Minimum != nil {
		dst.Minimum = src.Minimum
	}
	if src.Maximum != nil {
		dst.Maximum = src.Maximum
	}
	if src.MinLength != nil {
		dst.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		dst.MaxLength = src.MaxLength
	}
	if src.MinItems != nil {
		dst.MinItems = src.MinItems
	}
	if src.MaxItems != nil {
		dst.MaxItems = src.MaxItems
	}
	if src.UniqueItems {
		dst.UniqueItems = true
	}
}

// checkRequiredSatisfied verifies that every required name on a composed
// schema maps to a merged property. A required name with no property in
// any branch is a contradiction the source documents cannot satisfy.
func checkRequiredSatisfied(s *Schema) error {
	for _, name := range s.Required {
		if s.Properties != nil {
			if _, ok := s.Properties.Get(name); ok {
				continue
			}
		}
		return &reserrors.CompositionConflictError{
			Field:   name,
			Keyword: string(s.Composition),
		}
	}
	return nil
}

// Normalize re-runs the composition invariant checks on an already
// resolved schema tree. Resolution normalizes as it builds, so this is a
// no-op on engine output; it exists for callers that construct or modify
// schemas programmatically. It is idempotent.
func Normalize(n SchemaNode) error {
	return normalize(n, make(map[*Schema]bool))
}

func normalize(n SchemaNode, seen map[*Schema]bool) error {
	s, ok := n.(*Schema)
	if !ok || s == nil || seen[s] {
		return nil
	}
	seen[s] = true

	s.Required = uniqueSorted(s.Required)
	s.Kind = classify(s)
	if s.Composition != "" {
		if err := checkRequiredSatisfied(s); err != nil {
			return err
		}
	}

	if s.Properties != nil {
		for _, child := range s.Properties.All() {
			if err := normalize(child, seen); err != nil {
				return err
			}
		}
	}
	if err := normalize(s.Items, seen); err != nil {
		return err
	}
	for _, branch := range s.Branches {
		if err := normalize(branch, seen); err != nil {
			return err
		}
	}
	return nil
}
