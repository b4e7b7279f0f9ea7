package timeline

import (
	"cmp"
	"slices"
)

// Filter holds the user's selection. An empty Categories or Countries list
// selects everything.
type Filter struct {
	Categories         []string  `json:"categories,omitempty"`
	Countries          []string  `json:"countries,omitempty"`
	TimeRange          TimeRange `json:"time_range"`
	ShowAchievements   bool      `json:"show_achievements,omitempty"`
	HideEmptyCenturies bool      `json:"hide_empty_centuries,omitempty"`
}

// Match reports whether p passes the filter. A person matches the country
// filter when any of its "/"-separated countries is selected.
func (f Filter) Match(p Person) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Countries) > 0 && !slices.ContainsFunc(p.Countries(), func(c string) bool {
		return slices.Contains(f.Countries, c)
	}) {
		return false
	}
	return f.TimeRange.Overlaps(p.BirthYear, p.DeathYear)
}

// Apply returns the persons matching the filter in their original order.
func (f Filter) Apply(persons []Person) []Person {
	out := make([]Person, 0, len(persons))
	for _, p := range persons {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// SortPersons returns a copy of persons ordered by birth year, then by group
// priority under mode, then by ID. Keys missing from order sort last.
func SortPersons(persons []Person, mode GroupingMode, order GroupOrder) []Person {
	out := slices.Clone(persons)
	priority := func(p Person) int {
		if mode == GroupByNone {
			return 0
		}
		if i := order.Index(GroupKey(p, mode)); i >= 0 {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(out, func(a, b Person) int {
		if c := cmp.Compare(a.BirthYear, b.BirthYear); c != 0 {
			return c
		}
		if c := cmp.Compare(priority(a), priority(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
