package dataset

import (
	"path/filepath"
	"strings"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

// Format is a dataset file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json", "yaml", "yml" or "csv".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unsupported dataset format %q (must be one of: json, yaml, csv)", s)
}

// FormatFromPath derives the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "cannot detect dataset format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}
