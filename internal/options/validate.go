// Package options provides shared helpers for functional-option validation.
package options

import "github.com/specfold/oasresolve/reserrors"

// ValidateSingleInputSource ensures exactly one input source flag is set.
// option names the configuration surface for error messages (e.g.
// "input"). Returns a ConfigError when zero or more than one source is
// specified.
func ValidateSingleInputSource(option string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &reserrors.ConfigError{
			Option:  option,
			Message: "no input source specified (use WithFilePath or WithBytes)",
		}
	case count > 1:
		return &reserrors.ConfigError{
			Option:  option,
			Message: "exactly one input source must be specified",
		}
	}
	return nil
}
