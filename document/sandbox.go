package document

import (
	"path/filepath"
	"strings"

	"github.com/specfold/oasresolve/reserrors"
)

// Sandbox confines external document references to a root directory.
//
// The zero value is not usable; construct with NewSandbox. The traversal
// check runs before any filesystem read, so a rejected path is never
// touched on disk. Read failure is not the enforcement mechanism.
type Sandbox struct {
	root string
}

// NewSandbox creates a Sandbox rooted at the given directory.
// The root is made absolute; relative roots resolve against the
// current working directory.
func NewSandbox(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &reserrors.ConfigError{
			Option:  "sandbox root",
			Value:   root,
			Message: "cannot make absolute",
			Cause:   err,
		}
	}
	return &Sandbox{root: abs}, nil
}

// Root returns the canonical absolute root directory.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve resolves ref relative to baseDir, canonicalizes the result, and
// verifies it is still a descendant of the sandbox root. It returns the
// canonical absolute path, or a PathTraversalError when the path escapes.
func (s *Sandbox) Resolve(baseDir, ref string) (string, error) {
	target := ref
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, target)
	}
	target = filepath.Clean(target)

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", &reserrors.ConfigError{
			Option:  "reference path",
			Value:   ref,
			Message: "cannot make absolute",
			Cause:   err,
		}
	}

	// filepath.Rel handles all the edge cases, including different volumes
	// on Windows (it returns an error when paths share no common root).
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &reserrors.PathTraversalError{
			Ref:  ref,
			Path: abs,
			Root: s.root,
		}
	}

	return abs, nil
}
