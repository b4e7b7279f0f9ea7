package dataset

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// idNamespace seeds the name-based UUIDs assigned to persons without an ID.
var idNamespace = uuid.MustParse("6f1c3e0a-5d2b-4b8e-9c47-2a1f0e9d8b73")

// Dataset is a set of persons together with the group orders they are laid
// out in.
type Dataset struct {
	Categories []string          `json:"categories,omitempty"`
	Countries  []string          `json:"countries,omitempty"`
	Persons    []timeline.Person `json:"persons"`
}

// GroupOrder returns the group order for mode: the categories, the primary
// countries, or nil for GroupByNone.
func (d *Dataset) GroupOrder(mode timeline.GroupingMode) timeline.GroupOrder {
	switch mode {
	case timeline.GroupByCategory:
		return timeline.GroupOrder(slices.Clone(d.Categories))
	case timeline.GroupByCountry:
		var order timeline.GroupOrder
		for _, c := range d.Countries {
			if c = timeline.PrimaryCountry(c); c != "" && !slices.Contains(order, c) {
				order = append(order, c)
			}
		}
		return order
	}
	return nil
}

// Person returns the person with the given ID.
func (d *Dataset) Person(id string) (timeline.Person, error) {
	for _, p := range d.Persons {
		if p.ID == id {
			return p, nil
		}
	}
	return timeline.Person{}, apperr.New(apperr.ErrCodePersonNotFound, "person %q not found", id)
}

// Clone returns a copy of d whose top-level slices are its own. Achievement
// slices stay shared; Normalize only reslices them.
func (d *Dataset) Clone() *Dataset {
	return &Dataset{
		Categories: slices.Clone(d.Categories),
		Countries:  slices.Clone(d.Countries),
		Persons:    slices.Clone(d.Persons),
	}
}

// Normalize fills in what a reader could not: missing IDs, the category and
// country orders, and the achievement limit. It is idempotent.
func (d *Dataset) Normalize() {
	deriveCategories := len(d.Categories) == 0
	deriveCountries := len(d.Countries) == 0

	for i := range d.Persons {
		p := &d.Persons[i]
		if p.ID == "" {
			p.ID = StableID(*p)
		}
		if len(p.Achievements) > timeline.MaxAchievements {
			p.Achievements = p.Achievements[:timeline.MaxAchievements]
		}
		if deriveCategories && p.Category != "" && !slices.Contains(d.Categories, p.Category) {
			d.Categories = append(d.Categories, p.Category)
		}
		if c := p.PrimaryCountry(); deriveCountries && c != "" && !slices.Contains(d.Countries, c) {
			d.Countries = append(d.Countries, c)
		}
	}
}

// StableID derives a UUID from the name and life span of p, so that
// re-importing the same record yields the same ID.
func StableID(p timeline.Person) string {
	key := p.Name + "|" + strconv.Itoa(p.BirthYear) + "|" + strconv.Itoa(p.DeathYear)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Warning describes a suspicious record. Warnings never stop a layout.
type Warning struct {
	PersonID string `json:"person_id,omitempty"`
	Message  string `json:"message"`
}

func (w Warning) String() string {
	if w.PersonID == "" {
		return w.Message
	}
	return w.PersonID + ": " + w.Message
}

// Validate checks the dataset and returns one warning per problem found.
func Validate(d *Dataset) []Warning {
	var out []Warning
	warn := func(id, format string, args ...any) {
		out = append(out, Warning{PersonID: id, Message: fmt.Sprintf(format, args...)})
	}

	countries := d.GroupOrder(timeline.GroupByCountry)
	seen := make(map[string]bool, len(d.Persons))
	for _, p := range d.Persons {
		if seen[p.ID] {
			warn(p.ID, "duplicate id")
		}
		seen[p.ID] = true

		if err := apperr.ValidateName("name", p.Name); err != nil {
			warn(p.ID, "%s", apperr.UserMessage(err))
		}
		for _, y := range []int{p.BirthYear, p.DeathYear} {
			if err := apperr.ValidateYear(y); err != nil {
				warn(p.ID, "%s", apperr.UserMessage(err))
			}
		}
		if p.BirthYear > p.DeathYear {
			warn(p.ID, "birth %d is after death %d", p.BirthYear, p.DeathYear)
		}

		if (p.ReignStart == nil) != (p.ReignEnd == nil) {
			warn(p.ID, "reign has only one bound")
		}
		if p.HasReign() {
			if *p.ReignStart > *p.ReignEnd {
				warn(p.ID, "reign start %d is after reign end %d", *p.ReignStart, *p.ReignEnd)
			}
			if *p.ReignStart < p.BirthYear || *p.ReignEnd > p.DeathYear {
				warn(p.ID, "reign %d-%d lies outside life %d-%d", *p.ReignStart, *p.ReignEnd, p.BirthYear, p.DeathYear)
			}
		}

		for _, a := range p.Achievements {
			if a.Year < p.BirthYear || a.Year > p.DeathYear {
				warn(p.ID, "achievement year %d lies outside life %d-%d", a.Year, p.BirthYear, p.DeathYear)
			}
		}

		if len(d.Categories) > 0 && !slices.Contains(d.Categories, p.Category) {
			warn(p.ID, "category %q is not in the category order and will not be shown when grouping by category", p.Category)
		}
		if c := p.PrimaryCountry(); len(countries) > 0 && !slices.Contains(countries, c) {
			warn(p.ID, "country %q is not in the country order and will not be shown when grouping by country", c)
		}
	}
	return out
}
