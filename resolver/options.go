package resolver

import (
	"path/filepath"

	"github.com/specfold/oasresolve/document"
	"github.com/specfold/oasresolve/internal/options"
	"github.com/specfold/oasresolve/reserrors"
)

// Option is a function that configures a resolution pass.
type Option func(*resolveConfig) error

// resolveConfig holds configuration for a resolution pass.
type resolveConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	bytes    []byte

	// Source identification for byte input
	sourceName string

	// Sandbox root for external references; defaults to the root
	// document's directory for file input and is required to be unset
	// or explicit for byte input
	sandboxRoot *string

	logger Logger

	// Resource limits (0 means use default)
	maxRefDepth        int
	maxCachedDocuments int
	maxFileSize        int64
}

// ResolveWithOptions resolves an OpenAPI or JSON-Schema document into an
// immutable Model using functional options.
//
// Example:
//
//	model, err := resolver.ResolveWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithSandboxRoot("./specs"),
//	)
func ResolveWithOptions(opts ...Option) (*Model, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	log := cfg.logger
	if log == nil {
		log = NopLogger{}
	}

	store, rootID, err := loadRoot(cfg)
	if err != nil {
		return nil, err
	}

	return buildModel(store, rootID, log, cfg.maxRefDepth)
}

// loadRoot builds the document store and loads the root document from the
// configured input source.
func loadRoot(cfg *resolveConfig) (*document.Store, document.ID, error) {
	switch {
	case cfg.filePath != nil:
		root := filepath.Dir(*cfg.filePath)
		if cfg.sandboxRoot != nil {
			root = *cfg.sandboxRoot
		}
		sandbox, err := document.NewSandbox(root)
		if err != nil {
			return nil, "", err
		}
		store := newStore(sandbox, cfg)
		id, err := store.Load(".", *cfg.filePath)
		if err != nil {
			return nil, "", err
		}
		return store, id, nil

	case cfg.bytes != nil:
		// Byte input has no directory; external refs only work when a
		// sandbox root is given explicitly.
		root := "."
		if cfg.sandboxRoot != nil {
			root = *cfg.sandboxRoot
		}
		sandbox, err := document.NewSandbox(root)
		if err != nil {
			return nil, "", err
		}
		store := newStore(sandbox, cfg)
		name := cfg.sourceName
		if name == "" {
			name = "resolve-bytes"
		}
		id, err := store.AddBytes(name, cfg.bytes)
		if err != nil {
			return nil, "", err
		}
		return store, id, nil
	}

	// unreachable; applyOptions validates the input source
	return nil, "", &reserrors.ConfigError{Option: "input", Message: "no input source specified"}
}

func newStore(sandbox *document.Sandbox, cfg *resolveConfig) *document.Store {
	store := document.NewStore(sandbox)
	if cfg.maxFileSize > 0 {
		store.MaxFileSize = cfg.maxFileSize
	}
	if cfg.maxCachedDocuments > 0 {
		store.MaxDocuments = cfg.maxCachedDocuments
	}
	return store
}

// applyOptions applies option functions and validates configuration.
func applyOptions(opts ...Option) (*resolveConfig, error) {
	cfg := &resolveConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"input",
		cfg.filePath != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path as the input source. The file's
// directory becomes the sandbox root unless WithSandboxRoot overrides it.
func WithFilePath(path string) Option {
	return func(cfg *resolveConfig) error {
		if path == "" {
			return &reserrors.ConfigError{Option: "filePath", Message: "path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies raw document bytes as the input source. name
// identifies the document in error messages and the resulting model.
func WithBytes(name string, data []byte) Option {
	return func(cfg *resolveConfig) error {
		if data == nil {
			return &reserrors.ConfigError{Option: "bytes", Message: "data cannot be nil"}
		}
		cfg.bytes = data
		cfg.sourceName = name
		return nil
	}
}

// WithSandboxRoot sets the directory that external file references are
// confined to. Any $ref whose canonical path falls outside this root
// fails with a PathTraversalError before the file is read.
//
// Default: the root document's directory for file input, the process
// working directory for byte input.
func WithSandboxRoot(root string) Option {
	return func(cfg *resolveConfig) error {
		if root == "" {
			return &reserrors.ConfigError{Option: "sandboxRoot", Message: "root cannot be empty"}
		}
		cfg.sandboxRoot = &root
		return nil
	}
}

// WithLogger sets a structured logger for debug output during resolution.
// By default, no logging is performed.
//
// The logger interface is compatible with log/slog, zap, and zerolog.
// Use NewSlogAdapter to wrap a *slog.Logger.
func WithLogger(l Logger) Option {
	return func(cfg *resolveConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxRefDepth sets the maximum depth for resolving nested schemas.
// This prevents stack overflow from deeply nested (but non-circular)
// structures; circular references never count against it.
// A value of 0 means use the default (100).
func WithMaxRefDepth(depth int) Option {
	return func(cfg *resolveConfig) error {
		if depth < 0 {
			return &reserrors.ConfigError{Option: "maxRefDepth", Value: depth, Message: "cannot be negative"}
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedDocuments sets the maximum number of documents the store
// will hold during resolution. This prevents memory exhaustion from
// specifications with many external references.
// A value of 0 means use the default (100).
func WithMaxCachedDocuments(count int) Option {
	return func(cfg *resolveConfig) error {
		if count < 0 {
			return &reserrors.ConfigError{Option: "maxCachedDocuments", Value: count, Message: "cannot be negative"}
		}
		cfg.maxCachedDocuments = count
		return nil
	}
}

// WithMaxFileSize sets the maximum size in bytes of any single document
// file. A value of 0 means use the default (10MB).
func WithMaxFileSize(size int64) Option {
	return func(cfg *resolveConfig) error {
		if size < 0 {
			return &reserrors.ConfigError{Option: "maxFileSize", Value: size, Message: "cannot be negative"}
		}
		cfg.maxFileSize = size
		return nil
	}
}
