package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFilename validates an export filename for safety.
// It ensures the filename is a simple basename without path components,
// since the name may come from a request body or a generated title.
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "filename too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return New(ErrCodeInvalidInput, "filename must not contain path separators: %q", name)
	}

	if name == "." || name == ".." || strings.HasPrefix(name, "..") {
		return New(ErrCodeInvalidInput, "filename cannot be a relative path: %q", name)
	}

	return nil
}

// ValidateFontFamily validates a font family name before it is embedded in a
// stylesheet URL. Family names are human-readable (e.g. "Playfair Display"),
// so only characters that would break the URL query are rejected.
func ValidateFontFamily(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidFont, "font family cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidFont, "font family too long (max 128 characters)")
	}
	if strings.ContainsAny(name, "&?#:;=/\\\"'<>") {
		return New(ErrCodeInvalidFont, "font family contains invalid characters: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidFont, "font family contains invalid control characters")
		}
	}
	return nil
}
