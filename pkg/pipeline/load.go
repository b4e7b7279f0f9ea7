package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/matzehuels/chronoline/pkg/dataset"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

// readSource reads the raw bytes of a dataset file and the format they are
// written in.
func readSource(path string) ([]byte, dataset.Format, error) {
	format, err := dataset.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", apperr.Wrap(apperr.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, format, nil
}

// parseSource decodes data read by readSource.
func parseSource(path string, data []byte, format dataset.Format) (*dataset.Dataset, error) {
	d, err := dataset.Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
