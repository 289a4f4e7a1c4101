package pointer

import (
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/specfold/oasresolve/internal/nodeutil"
	"github.com/specfold/oasresolve/reserrors"
)

// Pointer is a decoded JSON Pointer: an ordered sequence of path segments.
// Segments are stored unescaped; use String to re-encode.
type Pointer []string

// Parse decodes a JSON Pointer fragment into a Pointer.
// The fragment may include the leading "#". An empty fragment ("" or "#")
// addresses the whole document. Plain-name fragments ("#foo") are not
// JSON Pointers and are rejected.
func Parse(fragment string) (Pointer, error) {
	orig := fragment
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return nil, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, &reserrors.MalformedPointerError{
			Ref:     orig,
			Message: "fragment must be empty or start with /",
		}
	}

	raw := strings.Split(fragment[1:], "/")
	segments := make(Pointer, len(raw))
	for i, token := range raw {
		if err := validateEscapes(orig, token); err != nil {
			return nil, err
		}
		segments[i] = unescapeToken(token)
	}
	return segments, nil
}

// String re-encodes the pointer as a fragment without the leading "#".
// The empty pointer encodes as "".
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(escapeToken(seg))
	}
	return b.String()
}

// Evaluate walks node following the pointer and returns the addressed
// node. On a missing segment it returns the segment that failed so callers
// can build a precise error. Alias nodes are followed transparently.
func (p Pointer) Evaluate(node *yaml.Node) (*yaml.Node, string, bool) {
	current := nodeutil.Deref(node)
	for _, seg := range p {
		if current == nil {
			return nil, seg, false
		}
		switch current.Kind {
		case yaml.MappingNode:
			next := nodeutil.MapValue(current, seg)
			if next == nil {
				return nil, seg, false
			}
			current = next

		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(current.Content) {
				return nil, seg, false
			}
			current = nodeutil.Deref(current.Content[idx])

		default:
			return nil, seg, false
		}
	}
	return current, "", true
}

// unescapeToken unescapes a JSON Pointer token.
// Per RFC 6901, ~1 represents / and ~0 represents ~; ~1 must be replaced
// first so that "~01" decodes to "~1" and not "/".
func unescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// escapeToken escapes a segment for re-encoding: ~ before / so the result
// round-trips through unescapeToken.
func escapeToken(seg string) string {
	seg = strings.ReplaceAll(seg, "~", "~0")
	seg = strings.ReplaceAll(seg, "/", "~1")
	return seg
}

// validateEscapes rejects tokens containing a bare "~" that is not part of
// a ~0 or ~1 escape.
func validateEscapes(ref, token string) error {
	for i := 0; i < len(token); i++ {
		if token[i] != '~' {
			continue
		}
		if i+1 >= len(token) || (token[i+1] != '0' && token[i+1] != '1') {
			return &reserrors.MalformedPointerError{
				Ref:     ref,
				Message: "invalid ~ escape in segment " + strconv.Quote(token),
			}
		}
	}
	return nil
}
