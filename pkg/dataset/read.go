package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// document is the on-disk shape shared by JSON and YAML.
type document struct {
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Countries  []string `json:"countries,omitempty" yaml:"countries,omitempty"`
	Persons    []record `json:"persons" yaml:"persons"`
}

type record struct {
	ID           string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string        `json:"name" yaml:"name"`
	Birth        int           `json:"birth" yaml:"birth"`
	Death        int           `json:"death" yaml:"death"`
	Category     string        `json:"category,omitempty" yaml:"category,omitempty"`
	Country      string        `json:"country,omitempty" yaml:"country,omitempty"`
	ReignStart   *int          `json:"reign_start,omitempty" yaml:"reign_start,omitempty"`
	ReignEnd     *int          `json:"reign_end,omitempty" yaml:"reign_end,omitempty"`
	Achievements []achievement `json:"achievements,omitempty" yaml:"achievements,omitempty"`
}

type achievement struct {
	Year  int    `json:"year" yaml:"year"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

func (r record) person() timeline.Person {
	p := timeline.Person{
		ID:         r.ID,
		Name:       r.Name,
		BirthYear:  r.Birth,
		DeathYear:  r.Death,
		Category:   r.Category,
		Country:    r.Country,
		ReignStart: r.ReignStart,
		ReignEnd:   r.ReignEnd,
	}
	for _, a := range r.Achievements {
		p.Achievements = append(p.Achievements, timeline.Achievement{Year: a.Year, Label: a.Label})
	}
	return p
}

func fromPerson(p timeline.Person) record {
	r := record{
		ID:         p.ID,
		Name:       p.Name,
		Birth:      p.BirthYear,
		Death:      p.DeathYear,
		Category:   p.Category,
		Country:    p.Country,
		ReignStart: p.ReignStart,
		ReignEnd:   p.ReignEnd,
	}
	for _, a := range p.Achievements {
		r.Achievements = append(r.Achievements, achievement{Year: a.Year, Label: a.Label})
	}
	return r
}

func (doc document) dataset() *Dataset {
	d := &Dataset{
		Categories: doc.Categories,
		Countries:  doc.Countries,
		Persons:    make([]timeline.Person, len(doc.Persons)),
	}
	for i, r := range doc.Persons {
		d.Persons[i] = r.person()
	}
	d.Normalize()
	return d
}

// ReadJSON decodes a JSON dataset from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDataset, err, "decode json")
	}
	return doc.dataset(), nil
}

// ReadYAML decodes a YAML dataset from r. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*Dataset, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDataset, err, "decode yaml")
	}
	return doc.dataset(), nil
}

// Read decodes a dataset in the given format from r.
func Read(r io.Reader, format Format) (*Dataset, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatCSV:
		return ReadCSV(r)
	}
	return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
}

// Load reads the dataset file at path, choosing the reader by extension.
func Load(path string) (*Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
