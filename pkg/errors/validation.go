package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches valid identifiers for component instances, pins,
// groups, and nets. Identifiers are conservative by design: they end up in
// file names, cache keys, and SVG attribute values.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateIdentifier validates an instance, pin, group, or net identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Must start with a letter or digit; only [A-Za-z0-9._-] afterwards
//   - Maximum length of 128 characters
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s identifier cannot be empty", kind)
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "%s identifier too long (max 128 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s identifier contains control characters", kind)
		}
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s identifier: %q", kind, id)
	}

	return nil
}

// ValidatePath validates a file path supplied on the command line or over
// the API for safety. It prevents path traversal and ensures reasonable
// path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
