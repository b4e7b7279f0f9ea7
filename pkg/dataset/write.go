package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

func (d *Dataset) document() document {
	doc := document{
		Categories: d.Categories,
		Countries:  d.Countries,
		Persons:    make([]record, len(d.Persons)),
	}
	for i, p := range d.Persons {
		doc.Persons[i] = fromPerson(p)
	}
	return doc
}

// WriteJSON encodes d as indented JSON. The output can be re-read with
// ReadJSON.
func WriteJSON(d *Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes d as YAML.
func WriteYAML(d *Dataset, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes d in the given format.
func Write(d *Dataset, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(d, w)
	case FormatYAML:
		return WriteYAML(d, w)
	case FormatCSV:
		return WriteCSV(d, w)
	}
	return apperr.New(apperr.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
}

// Export writes d to path in the format given by its extension.
func Export(d *Dataset, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
