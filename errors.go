package yolods

import "github.com/pkg/errors"

// Error kinds. Errors returned by this package wrap one of these values with context and can be
// matched with errors.Is.
var (
	// ErrNotFound is returned when a manifest file, split directory, label directory or label file
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a manifest violates one of its invariants.
	ErrValidation = errors.New("invalid manifest")

	// ErrMissingPath is returned when a split has no path configured in the manifest.
	ErrMissingPath = errors.New("no path configured")

	// ErrFormat is returned for malformed label lines.
	ErrFormat = errors.New("malformed label")
)

// notFoundf wraps ErrNotFound with a formatted message.
func notFoundf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

// invalidf wraps ErrValidation with a formatted message.
func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

// formatErrorf wraps ErrFormat with a formatted message.
func formatErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrFormat, format, args...)
}
