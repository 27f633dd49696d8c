package errors

import (
	"math"
	"strings"
	"unicode"
)

const (
	maxNameLength = 256
	maxPathLength = 500
)

// ValidateLabelName validates the text of a chart label.
//
// Label names end up inside SVG text nodes and DOT identifiers, so the
// rules are conservative:
//   - Maximum length of 256 bytes
//   - No control characters (including null bytes and newlines)
//
// Empty names are allowed; the label is then drawn as an empty box.
func ValidateLabelName(name string) error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidChart, "label name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidChart, "label name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not end in a path separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}
	return nil
}

// ValidateDimension rejects viewport sizes that are not finite and positive.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive number, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects values that are negative or not finite.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidInput, "%s must be a non-negative number, got %v", name, v)
	}
	return nil
}
