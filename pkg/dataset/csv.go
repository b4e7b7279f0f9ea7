package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// CSVColumns is the column order written by WriteCSV.
var CSVColumns = []string{
	"id", "name", "birth", "death", "category", "country",
	"reign_start", "reign_end", "achievements",
}

var requiredColumns = []string{"name", "birth", "death"}

// ReadCSV decodes a CSV dataset with a header row from r. Column names are
// matched case-insensitively; unknown columns are ignored.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.New(apperr.ErrCodeInvalidDataset, "csv has no header row")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDataset, err, "read csv header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, apperr.New(apperr.ErrCodeInvalidDataset, "csv is missing required column %q", c)
		}
	}

	d := &Dataset{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidDataset, err, "read csv")
		}
		line, _ := cr.FieldPos(0)

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		p, err := csvPerson(field)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidDataset, err, "csv line %d", line)
		}
		d.Persons = append(d.Persons, p)
	}

	d.Normalize()
	return d, nil
}

func csvPerson(field func(string) string) (timeline.Person, error) {
	p := timeline.Person{
		ID:       field("id"),
		Name:     field("name"),
		Category: field("category"),
		Country:  field("country"),
	}

	var err error
	if p.BirthYear, err = parseYear("birth", field("birth")); err != nil {
		return p, err
	}
	if p.DeathYear, err = parseYear("death", field("death")); err != nil {
		return p, err
	}
	if p.ReignStart, err = parseOptionalYear("reign_start", field("reign_start")); err != nil {
		return p, err
	}
	if p.ReignEnd, err = parseOptionalYear("reign_end", field("reign_end")); err != nil {
		return p, err
	}
	if p.Achievements, err = ParseAchievements(field("achievements")); err != nil {
		return p, err
	}
	return p, nil
}

func parseYear(column, s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidDataset, "%s: invalid year %q", column, s)
	}
	return y, nil
}

func parseOptionalYear(column, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	y, err := parseYear(column, s)
	if err != nil {
		return nil, err
	}
	return &y, nil
}

// ParseAchievements parses "year:label" pairs separated by ";". The label
// is optional.
func ParseAchievements(s string) ([]timeline.Achievement, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []timeline.Achievement
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		yearStr, label, _ := strings.Cut(part, ":")
		y, err := parseYear("achievements", strings.TrimSpace(yearStr))
		if err != nil {
			return nil, err
		}
		out = append(out, timeline.Achievement{Year: y, Label: strings.TrimSpace(label)})
	}
	return out, nil
}

// FormatAchievements is the inverse of ParseAchievements.
func FormatAchievements(as []timeline.Achievement) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = strconv.Itoa(a.Year)
		if a.Label != "" {
			parts[i] += ":" + a.Label
		}
	}
	return strings.Join(parts, ";")
}

// WriteCSV encodes the persons of d as CSV with a CSVColumns header. The
// group orders are not representable in CSV and are dropped.
func WriteCSV(d *Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	optional := func(y *int) string {
		if y == nil {
			return ""
		}
		return strconv.Itoa(*y)
	}
	for _, p := range d.Persons {
		rec := []string{
			p.ID, p.Name, strconv.Itoa(p.BirthYear), strconv.Itoa(p.DeathYear),
			p.Category, p.Country, optional(p.ReignStart), optional(p.ReignEnd),
			FormatAchievements(p.Achievements),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
