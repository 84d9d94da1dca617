package errors

import (
	"strings"
	"unicode"
)

// ValidateTileKey validates an item/tile identity key for safety and
// correctness. Keys come from external collaborators (signaling layers,
// HTTP clients) and end up in log lines, store keys and URLs, so the rules
// are intentionally conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - No path separators (keys are embedded in store and URL paths)
//   - Maximum length of 256 characters
func ValidateTileKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidItem, "tile key cannot be empty")
	}
	if len(key) > 256 {
		return New(ErrCodeInvalidItem, "tile key too long (max 256 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "tile key contains control characters")
		}
	}
	if strings.ContainsAny(key, "/\\") {
		return New(ErrCodeInvalidItem, "tile key cannot contain path separators")
	}
	return nil
}

// ValidateViewport validates viewport pixel dimensions.
// Zero or negative dimensions are impossible geometry; layout callers are
// expected to degrade to an empty rectangle set rather than divide by zero.
func ValidateViewport(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport dimensions must be positive, got %gx%g", width, height)
	}
	return nil
}

// ValidateArrangementName validates a saved-arrangement name for the
// archive. Names appear in URLs and database queries.
func ValidateArrangementName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "arrangement name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "arrangement name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "arrangement name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "arrangement name cannot contain path separators")
	}
	return nil
}
