package resolver

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specfold/oasresolve/reserrors"
)

// TestOptions_NoInputSource verifies the config error when no source is
// given.
func TestOptions_NoInputSource(t *testing.T) {
	_, err := ResolveWithOptions()
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrConfig)
}

// TestOptions_MultipleInputSources verifies the config error when both
// sources are given.
func TestOptions_MultipleInputSources(t *testing.T) {
	_, err := ResolveWithOptions(
		WithFilePath("../testdata/petstore.yaml"),
		WithBytes("dup", []byte("openapi: 3.0.3")),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrConfig)
}

// TestOptions_Validation covers per-option validation failures.
func TestOptions_Validation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty file path", WithFilePath("")},
		{"nil bytes", WithBytes("x", nil)},
		{"empty sandbox root", WithSandboxRoot("")},
		{"negative depth", WithMaxRefDepth(-1)},
		{"negative cache size", WithMaxCachedDocuments(-1)},
		{"negative file size", WithMaxFileSize(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveWithOptions(tt.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, reserrors.ErrConfig)
		})
	}
}

// TestOptions_WithLogger verifies resolution runs with a real logger
// attached.
func TestOptions_WithLogger(t *testing.T) {
	model, err := ResolveWithOptions(
		WithFilePath("../testdata/petstore.yaml"),
		WithLogger(NewSlogAdapter(slog.Default())),
	)
	require.NoError(t, err)
	assert.NotNil(t, model)
}

// TestOptions_BytesSourceName verifies the synthetic document ID carries
// the supplied name.
func TestOptions_BytesSourceName(t *testing.T) {
	model, err := ResolveWithOptions(WithBytes("users-api", []byte(`openapi: 3.0.3
info:
  title: Users
  version: 1.0.0
paths: {}
`)))
	require.NoError(t, err)
	assert.Equal(t, "mem://users-api", string(model.Source))
	assert.True(t, model.Source.IsMemory())
}

// TestOptions_SandboxRootOverride verifies an explicit root wider than the
// document directory admits sibling directories.
func TestOptions_SandboxRootOverride(t *testing.T) {
	model, err := ResolveWithOptions(
		WithFilePath("../testdata/orders.yaml"),
		WithSandboxRoot(".."),
	)
	require.NoError(t, err)
	_, ok := model.Schemas.Lookup("Money")
	assert.True(t, ok)
}

// TestOptions_MaxFileSize verifies the file size limit is enforced.
func TestOptions_MaxFileSize(t *testing.T) {
	_, err := ResolveWithOptions(
		WithFilePath("../testdata/petstore.yaml"),
		WithMaxFileSize(16),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, reserrors.ErrResourceLimit)
}
