// Package nodeutil provides shared helpers for walking yaml.Node trees.
package nodeutil

import (
	"iter"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// Deref unwraps document and alias nodes to the underlying content node.
// Returns nil for nil input or an empty document.
func Deref(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

// MapValue returns the dereferenced value node for key in a mapping node,
// or nil when the key is absent or node is not a mapping.
func MapValue(node *yaml.Node, key string) *yaml.Node {
	n := Deref(node)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return Deref(n.Content[i+1])
		}
	}
	return nil
}

// Pairs iterates a mapping node's key/value pairs in declaration order.
// Keys are yielded as strings; values are dereferenced. Non-mapping nodes
// yield nothing.
func Pairs(node *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		n := Deref(node)
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, Deref(n.Content[i+1])) {
				return
			}
		}
	}
}

// Items iterates a sequence node's items in order, dereferenced.
func Items(node *yaml.Node) iter.Seq[*yaml.Node] {
	return func(yield func(*yaml.Node) bool) {
		n := Deref(node)
		if n == nil || n.Kind != yaml.SequenceNode {
			return
		}
		for _, item := range n.Content {
			if !yield(Deref(item)) {
				return
			}
		}
	}
}

// ScalarString returns the string value of a scalar node.
func ScalarString(node *yaml.Node) (string, bool) {
	n := Deref(node)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// ScalarBool returns the boolean value of a scalar node.
func ScalarBool(node *yaml.Node) (bool, bool) {
	s, ok := ScalarString(node)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return b, true
}

// ScalarInt returns the integer value of a scalar node.
func ScalarInt(node *yaml.Node) (int, bool) {
	s, ok := ScalarString(node)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}

// ScalarFloat returns the float value of a scalar node.
func ScalarFloat(node *yaml.Node) (float64, bool) {
	s, ok := ScalarString(node)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// StringSlice collects the scalar items of a sequence node into a string
// slice. Non-scalar items are skipped.
func StringSlice(node *yaml.Node) []string {
	var out []string
	for item := range Items(node) {
		if item != nil && item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
		}
	}
	return out
}

// ScalarValue converts a scalar node into a Go value: bool, int64,
// float64, nil, or string, following YAML's untyped scalar resolution.
// Used for enum members and similar leaf values.
func ScalarValue(node *yaml.Node) any {
	n := Deref(node)
	if n == nil || n.Kind != yaml.ScalarNode {
		return nil
	}
	if n.Tag == "!!str" {
		return n.Value
	}
	switch n.Value {
	case "null", "~", "":
		if n.Tag == "!!null" || n.Value == "null" || n.Value == "~" {
			return nil
		}
	}
	if b, err := strconv.ParseBool(n.Value); err == nil && (n.Value == "true" || n.Value == "false") {
		return b
	}
	if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
		return f
	}
	return n.Value
}
