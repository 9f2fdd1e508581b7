package errors

import (
	"strings"
	"unicode"
)

// maxFilenameLength bounds names accepted from uploads and used as archive entries.
const maxFilenameLength = 255

// ValidateFilename validates a user-supplied file name before it is used to
// derive archive entry names. Dropped files carry a bare name; anything that
// looks like a path could escape the extraction directory of the archive.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - Not "." or ".."
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidPath, "file name too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "file name cannot be a directory reference")
	}

	return nil
}

// ValidateFrameOrdinal checks that a 1-based frame ordinal addresses one of
// total frames.
func ValidateFrameOrdinal(n, total int) error {
	if n < 1 || n > total {
		return New(ErrCodeNotFound, "frame %d out of range (1-%d)", n, total)
	}
	return nil
}
