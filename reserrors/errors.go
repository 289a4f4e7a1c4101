// Package reserrors provides structured error types for oasresolve.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the different ways a
// resolution pass can fail. Every error in this package is fatal to the
// current pass: each one indicates either a malformed input document or a
// security violation, and retrying cannot change either condition.
//
// # Error Categories
//
//   - DocumentNotFoundError: a referenced document does not exist
//   - MalformedDocumentError: YAML/JSON parsing failures
//   - PathTraversalError: an external $ref escaped the sandbox root
//   - MalformedPointerError: a syntactically invalid $ref pointer
//   - ReferenceNotFoundError: a pointer path missing from its target document
//   - CompositionConflictError: an unsatisfiable allOf/oneOf/anyOf merge
//   - ResourceLimitError: resource exhaustion (depth, size, count limits)
//   - ConfigError: invalid options or input configuration
//
// Circular references are deliberately absent from this taxonomy: a
// well-formed self-referential schema resolves successfully via a
// back-reference and is never an error.
//
// # Usage with errors.Is
//
//	model, err := resolver.ResolveWithOptions(resolver.WithFilePath("api.yaml"))
//	if err != nil {
//	    if errors.Is(err, reserrors.ErrPathTraversal) {
//	        // A $ref tried to escape the sandbox root
//	    }
//	}
package reserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDocumentNotFound indicates a referenced document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMalformedDocument indicates a document failed to parse.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrPathTraversal indicates a path traversal attempt was blocked.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrMalformedPointer indicates a syntactically invalid $ref pointer.
	ErrMalformedPointer = errors.New("malformed pointer")

	// ErrReferenceNotFound indicates a pointer path that does not exist
	// in its target document.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrCompositionConflict indicates an unsatisfiable composition merge.
	ErrCompositionConflict = errors.New("composition conflict")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// DocumentNotFoundError represents a failure to locate a document on disk.
type DocumentNotFoundError struct {
	// Path is the canonical path that was requested
	Path string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DocumentNotFoundError) Error() string {
	msg := "document not found"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DocumentNotFoundError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// MalformedDocumentError represents a failure to parse a document.
// This includes YAML/JSON deserialization errors and documents whose root
// is not a mapping.
type MalformedDocumentError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MalformedDocumentError) Error() string {
	msg := "malformed document"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MalformedDocumentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// PathTraversalError represents a blocked attempt to reference a file
// outside the configured sandbox root. The check happens before any
// filesystem read, so Path may name a file that does not exist.
type PathTraversalError struct {
	// Ref is the reference string that attempted the escape
	Ref string
	// Path is the canonicalized target path
	Path string
	// Root is the sandbox root the path escaped
	Root string
}

// Error returns a human-readable error message.
func (e *PathTraversalError) Error() string {
	msg := "path traversal detected"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Path != "" && e.Root != "" {
		msg += fmt.Sprintf(" (%s escapes %s)", e.Path, e.Root)
	}
	return msg
}

// Unwrap returns nil as PathTraversalError has no underlying cause.
func (e *PathTraversalError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *PathTraversalError) Is(target error) bool {
	return target == ErrPathTraversal
}

// MalformedPointerError represents a syntactically invalid $ref value.
type MalformedPointerError struct {
	// Ref is the reference string that failed to parse
	Ref string
	// Message describes what is wrong with it
	Message string
}

// Error returns a human-readable error message.
func (e *MalformedPointerError) Error() string {
	msg := "malformed pointer"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as MalformedPointerError has no underlying cause.
func (e *MalformedPointerError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MalformedPointerError) Is(target error) bool {
	return target == ErrMalformedPointer
}

// ReferenceNotFoundError represents a pointer path that does not exist in
// its target document.
type ReferenceNotFoundError struct {
	// Ref is the reference string as written in the source document
	Ref string
	// Document is the canonical path of the document the pointer targets
	Document string
	// Segment is the first path segment that failed to resolve
	Segment string
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceNotFoundError) Error() string {
	msg := "reference not found"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Segment != "" {
		msg += " (missing segment: " + e.Segment + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ReferenceNotFoundError has no underlying cause.
func (e *ReferenceNotFoundError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// CompositionConflictError represents an unsatisfiable composition merge:
// a required field whose property is absent from every merged branch.
type CompositionConflictError struct {
	// Field is the required field with no corresponding property
	Field string
	// Keyword is the composition keyword being merged: "allOf", "oneOf", or "anyOf"
	Keyword string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *CompositionConflictError) Error() string {
	msg := "composition conflict"
	if e.Keyword != "" {
		msg += " in " + e.Keyword
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": required field %q has no property in any branch", e.Field)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as CompositionConflictError has no underlying cause.
func (e *CompositionConflictError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *CompositionConflictError) Is(target error) bool {
	return target == ErrCompositionConflict
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when a resolution pass exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
