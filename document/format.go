package document

import (
	"bytes"
	"path/filepath"
)

// Format represents the serialization format of a source document.
type Format string

const (
	// FormatYAML indicates the source was in YAML format
	FormatYAML Format = "yaml"
	// FormatJSON indicates the source was in JSON format
	FormatJSON Format = "json"
	// FormatUnknown indicates the source format could not be determined
	FormatUnknown Format = "unknown"
)

// detectFormatFromPath detects the source format from a file path extension.
func detectFormatFromPath(path string) Format {
	switch filepath.Ext(path) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from content bytes.
// JSON documents start with '{' or '['; everything else is treated as YAML.
func detectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// DetectFormat determines a document's format from its path, falling back
// to content sniffing when the extension is inconclusive.
func DetectFormat(path string, data []byte) Format {
	if f := detectFormatFromPath(path); f != FormatUnknown {
		return f
	}
	return detectFormatFromContent(data)
}
