package errors

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Year limits accepted for filter windows and person records.
const (
	MinYear = -10000
	MaxYear = 10000
)

// ValidateName validates a free-form label such as a category, a country or
// a person name. It rejects empty values, control characters and values
// longer than 256 bytes.
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "%s too long (max 256 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", kind)
		}
	}

	return nil
}

// personIDRegex matches identifiers safe for URLs and cache keys.
var personIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidatePersonID validates a person identifier as used in URLs and storage
// keys.
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "person id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "person id too long (max 128 characters)")
	}
	if !personIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid person id: %q", id)
	}
	return nil
}

// ValidateYear checks that year lies within [MinYear, MaxYear].
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidRange, "year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	return nil
}

// ValidateTimeRange checks a filter window: both ends within limits and
// start not after end.
func ValidateTimeRange(start, end int) error {
	if err := ValidateYear(start); err != nil {
		return err
	}
	if err := ValidateYear(end); err != nil {
		return err
	}
	if start > end {
		return New(ErrCodeInvalidRange, "time range start %d is after end %d", start, end)
	}
	return nil
}

// DatasetExtensions lists the file extensions a dataset can be loaded from.
var DatasetExtensions = []string{".json", ".yaml", ".yml", ".csv"}

// ValidateDatasetFilename validates the name of a dataset file. It must be a
// plain basename with one of DatasetExtensions.
func ValidateDatasetFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "dataset filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "dataset filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "dataset filename cannot be a hidden file")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(DatasetExtensions, ext) {
		return New(ErrCodeInvalidFormat, "unsupported dataset extension %q (must be one of: %s)",
			ext, strings.Join(DatasetExtensions, ", "))
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
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
