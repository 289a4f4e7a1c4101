package document

import (
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/specfold/oasresolve/reserrors"
)

const (
	// DefaultMaxFileSize is the maximum size (in bytes) allowed for a
	// document file. This prevents resource exhaustion from loading
	// arbitrarily large files. 10MB is sufficient for any realistic
	// specification document.
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultMaxDocuments is the maximum number of documents to cache.
	// This prevents memory exhaustion from specifications with many
	// external references.
	DefaultMaxDocuments = 100
)

// memScheme prefixes the synthetic IDs assigned to in-memory documents.
const memScheme = "mem://"

// ID is the canonical identity of a loaded document: the absolute file
// path for documents read from disk, or a mem:// name for documents
// registered from bytes. It is the cache key and the namespace component
// of every reference key.
type ID string

// IsMemory reports whether the document was registered from bytes rather
// than read from disk.
func (id ID) IsMemory() bool {
	return strings.HasPrefix(string(id), memScheme)
}

// entry holds one cached document tree and its metadata.
type entry struct {
	// root is the document's root mapping node, immutable once loaded
	root *yaml.Node
	// dir is the directory relative references resolve against
	dir string
	// format is the detected serialization format
	format Format
}

// Store loads, parses, and caches one document tree per ID.
//
// The cache grows for the lifetime of one resolution pass and has no
// eviction; specification documents are small and the store is not a
// long-running cache. A Store is not safe for concurrent mutation; a
// resolution pass is a single logical walk.
type Store struct {
	sandbox *Sandbox
	docs    map[ID]*entry

	// MaxFileSize overrides DefaultMaxFileSize when positive.
	MaxFileSize int64
	// MaxDocuments overrides DefaultMaxDocuments when positive.
	MaxDocuments int
}

// NewStore creates a Store whose file reads are confined by the given sandbox.
func NewStore(sandbox *Sandbox) *Store {
	return &Store{
		sandbox: sandbox,
		docs:    make(map[ID]*entry),
	}
}

// Sandbox returns the sandbox guarding this store's file reads.
func (s *Store) Sandbox() *Sandbox {
	return s.sandbox
}

// Len returns the number of cached documents.
func (s *Store) Len() int {
	return len(s.docs)
}

func (s *Store) maxFileSize() int64 {
	if s.MaxFileSize > 0 {
		return s.MaxFileSize
	}
	return DefaultMaxFileSize
}

func (s *Store) maxDocuments() int {
	if s.MaxDocuments > 0 {
		return s.MaxDocuments
	}
	return DefaultMaxDocuments
}

// Load resolves ref relative to baseDir through the sandbox, then returns
// the cached ID if the document is already loaded, otherwise reads and
// parses the file and caches it.
//
// It fails with PathTraversalError before any read when the canonical path
// escapes the sandbox root, DocumentNotFoundError when the file does not
// exist, and MalformedDocumentError when parsing fails.
func (s *Store) Load(baseDir, ref string) (ID, error) {
	canonical, err := s.sandbox.Resolve(baseDir, ref)
	if err != nil {
		return "", err
	}

	id := ID(canonical)
	if _, ok := s.docs[id]; ok {
		return id, nil
	}

	if len(s.docs) >= s.maxDocuments() {
		return "", &reserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(s.maxDocuments()),
			Actual:       int64(len(s.docs)),
			Message:      "too many referenced documents",
		}
	}

	// Single ReadFile syscall; the size check runs on the result rather
	// than a separate stat.
	data, err := os.ReadFile(canonical)
	if err != nil {
		return "", &reserrors.DocumentNotFoundError{Path: canonical, Cause: err}
	}
	if int64(len(data)) > s.maxFileSize() {
		return "", &reserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        s.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      canonical,
		}
	}

	root, err := parseTree(canonical, data)
	if err != nil {
		return "", err
	}

	s.docs[id] = &entry{
		root:   root,
		dir:    filepath.Dir(canonical),
		format: DetectFormat(canonical, data),
	}
	return id, nil
}

// AddBytes registers an in-memory document under a synthetic mem:// ID.
// Relative references inside it resolve against the sandbox root.
// Calling AddBytes twice with the same name replaces nothing: the cached
// document wins, matching the load-once semantics of file documents.
func (s *Store) AddBytes(name string, data []byte) (ID, error) {
	id := ID(memScheme + name)
	if _, ok := s.docs[id]; ok {
		return id, nil
	}

	if len(s.docs) >= s.maxDocuments() {
		return "", &reserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(s.maxDocuments()),
			Actual:       int64(len(s.docs)),
			Message:      "too many referenced documents",
		}
	}
	if int64(len(data)) > s.maxFileSize() {
		return "", &reserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        s.maxFileSize(),
			Actual:       int64(len(data)),
			Message:      name,
		}
	}

	root, err := parseTree(name, data)
	if err != nil {
		return "", err
	}

	s.docs[id] = &entry{
		root:   root,
		dir:    s.sandbox.Root(),
		format: DetectFormat(name, data),
	}
	return id, nil
}

// Node returns the root mapping node of a loaded document, or nil when the
// ID is unknown. The returned tree must be treated as read-only.
func (s *Store) Node(id ID) *yaml.Node {
	if e, ok := s.docs[id]; ok {
		return e.root
	}
	return nil
}

// Dir returns the directory that relative references in the given document
// resolve against.
func (s *Store) Dir(id ID) string {
	if e, ok := s.docs[id]; ok {
		return e.dir
	}
	return s.sandbox.Root()
}

// Format returns the detected serialization format of a loaded document.
func (s *Store) Format(id ID) Format {
	if e, ok := s.docs[id]; ok {
		return e.format
	}
	return FormatUnknown
}

// parseTree parses data into a yaml.Node tree and unwraps the document
// node. The root must be a mapping; scalar or sequence roots are not valid
// specification documents.
func parseTree(path string, data []byte) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &reserrors.MalformedDocumentError{
			Path:  path,
			Cause: err,
		}
	}

	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, &reserrors.MalformedDocumentError{
				Path:    path,
				Message: "document is empty",
			}
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &reserrors.MalformedDocumentError{
			Path:    path,
			Line:    root.Line,
			Column:  root.Column,
			Message: "document root must be a mapping",
		}
	}
	return root, nil
}
