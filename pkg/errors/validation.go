package errors

import (
	"math"
	"strings"
	"unicode"
)

// Spiral names accepted by the placement engine.
const (
	spiralArchimedean = "archimedean"
	spiralRectangular = "rectangular"
)

// maxWordLength bounds a single word's text. Longer inputs are almost always
// pasted paragraphs rather than words.
const maxWordLength = 256

// ValidateDimensions validates a layout canvas size.
// Both dimensions must be finite and strictly positive.
func ValidateDimensions(width, height float64) error {
	if !finitePositive(width) {
		return New(ErrCodeInvalidDimensions, "width must be a positive number, got %v", width)
	}
	if !finitePositive(height) {
		return New(ErrCodeInvalidDimensions, "height must be a positive number, got %v", height)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ValidateWordCount rejects an empty word list.
func ValidateWordCount(n int) error {
	if n == 0 {
		return New(ErrCodeEmptyWords, "word list cannot be empty")
	}
	return nil
}

// ValidateWordText validates a single word's text.
//
// The validation rules are intentionally conservative:
//   - No empty text
//   - No control characters (including newlines)
//   - Maximum length of 256 bytes
func ValidateWordText(text string) error {
	if text == "" {
		return New(ErrCodeInvalidInput, "word text cannot be empty")
	}
	if len(text) > maxWordLength {
		return New(ErrCodeInvalidInput, "word text too long (max %d characters)", maxWordLength)
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "word %q contains control characters", text)
		}
	}
	return nil
}

// ValidateSpiral validates a spiral name. The empty string selects the default.
func ValidateSpiral(name string) error {
	switch name {
	case "", spiralArchimedean, spiralRectangular:
		return nil
	}
	return New(ErrCodeInvalidSpiral, "invalid spiral: %q (must be one of: archimedean, rectangular)", name)
}

// ValidatePath validates a file path supplied by a remote caller.
// It prevents path traversal attacks and ensures reasonable path length.
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

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
