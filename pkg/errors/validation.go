package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateUploadFilename validates the client-supplied name of an uploaded
// kill-matrix file. Only plain .csv basenames are accepted.
func ValidateUploadFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "upload filename cannot be empty")
	}
	if len(filename) > 255 {
		return New(ErrCodeInvalidInput, "upload filename too long (max 255 characters)")
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "upload filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "upload filename cannot contain path separators")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return New(ErrCodeInvalidInput, "upload must be a .csv file: %q", filename)
	}
	return nil
}

// ValidateMutantCount rejects kill maps larger than limit. A limit of zero or
// less disables the check.
func ValidateMutantCount(count, limit int) error {
	if limit > 0 && count > limit {
		return New(ErrCodeTooLarge, "%d mutants exceed the limit of %d", count, limit)
	}
	return nil
}

// ValidateGroupCount rejects analyses whose number of distinct kill sets
// exceeds limit. Graph construction is quadratic in this number.
func ValidateGroupCount(count, limit int) error {
	if limit > 0 && count > limit {
		return New(ErrCodeTooLarge, "%d distinct kill sets exceed the limit of %d", count, limit)
	}
	return nil
}

// ValidatePath validates an output path given on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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
	return nil
}
