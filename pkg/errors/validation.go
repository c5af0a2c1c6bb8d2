package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates an asset path relative to the asset root.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// profileNameRegex matches profile names: lowercase words joined by - or _.
var profileNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateProfileName validates the name of a descriptor profile.
// Names are used in cache keys and file names, so they are kept simple.
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "profile name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "profile name too long (max 64 characters)")
	}
	if !profileNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid profile name: %q", name)
	}
	return nil
}

// colorRegex matches #rgb and #rrggbb hex colours.
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor accepts hex colours (#rgb, #rrggbb) and plain CSS colour
// names made of letters.
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}
	if strings.HasPrefix(c, "#") {
		if !colorRegex.MatchString(c) {
			return New(ErrCodeInvalidInput, "invalid hex color: %q", c)
		}
		return nil
	}
	for _, r := range c {
		if !unicode.IsLetter(r) {
			return New(ErrCodeInvalidInput, "invalid color name: %q", c)
		}
	}
	return nil
}
