package pointer

import (
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/specfold/oasresolve/document"
	"github.com/specfold/oasresolve/reserrors"
)

// ReferenceKey is the canonical identity of a $ref target: the document it
// lives in and the encoded pointer path within it. Two refs with the same
// key address the same logical schema regardless of textual spelling, so
// ReferenceKey is the cache and cycle-detection key throughout the engine.
type ReferenceKey struct {
	// Doc is the canonical ID of the target document
	Doc document.ID
	// Ptr is the canonical encoded pointer path, e.g. "/components/schemas/Pet".
	// Empty addresses the whole document.
	Ptr string
}

// String renders the key in document#fragment form for logs and errors.
func (k ReferenceKey) String() string {
	return string(k.Doc) + "#" + k.Ptr
}

// Resolver turns $ref strings into ReferenceKeys and fetches their raw
// target nodes, loading external documents through the store on demand.
type Resolver struct {
	store *document.Store
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store *document.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve splits ref into its document part and fragment, loads the target
// document if needed, and returns the canonical key together with the raw
// node it addresses.
//
// It fails with MalformedPointerError for syntactically invalid refs
// (including network URLs, which are out of scope), and with
// ReferenceNotFoundError when the decoded path does not exist in the
// target document. Document loading failures propagate from the store.
func (r *Resolver) Resolve(ref string, cur document.ID) (ReferenceKey, *yaml.Node, error) {
	docPart, fragment, err := splitRef(ref)
	if err != nil {
		return ReferenceKey{}, nil, err
	}

	target := cur
	if docPart != "" {
		target, err = r.store.Load(r.store.Dir(cur), docPart)
		if err != nil {
			return ReferenceKey{}, nil, err
		}
	}

	ptr, err := Parse(fragment)
	if err != nil {
		return ReferenceKey{}, nil, err
	}

	key := ReferenceKey{Doc: target, Ptr: ptr.String()}

	root := r.store.Node(target)
	node, missing, ok := ptr.Evaluate(root)
	if !ok {
		return ReferenceKey{}, nil, &reserrors.ReferenceNotFoundError{
			Ref:      ref,
			Document: string(target),
			Segment:  missing,
		}
	}

	return key, node, nil
}

// splitRef separates a $ref value into its document part and fragment.
// An empty document part means the current document.
func splitRef(ref string) (docPart, fragment string, err error) {
	if strings.TrimSpace(ref) == "" {
		return "", "", &reserrors.MalformedPointerError{
			Ref:     ref,
			Message: "empty reference",
		}
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return "", "", &reserrors.MalformedPointerError{
			Ref:     ref,
			Message: "network references are not supported",
		}
	}

	if idx := strings.Index(ref, "#"); idx >= 0 {
		return ref[:idx], ref[idx:], nil
	}
	return ref, "", nil
}
