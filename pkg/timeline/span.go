package timeline

// TimeRange is the year window selected by the user filter. Both ends are
// inclusive.
type TimeRange struct {
	Start int `json:"start" toml:"start"`
	End   int `json:"end" toml:"end"`
}

// Overlaps reports whether the interval [birth, death] intersects the range.
func (r TimeRange) Overlaps(birth, death int) bool {
	return birth <= r.End && death >= r.Start
}

// Span is the resolved [MinYear, MaxYear] extent of a timeline.
type Span struct {
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
}

// Years returns MaxYear - MinYear.
func (s Span) Years() int { return s.MaxYear - s.MinYear }

// ResolveRange derives the effective span of years.
//
// Normally the span is the union of the filter window and every person's
// life. With hideEmpty set the span narrows to the persons alone, so that
// empty leading and trailing centuries are not drawn; an empty set falls back
// to the filter window.
func ResolveRange(persons []Person, filter TimeRange, hideEmpty bool) Span {
	if len(persons) == 0 {
		return Span{MinYear: filter.Start, MaxYear: filter.End}
	}

	minBirth, maxDeath := persons[0].BirthYear, persons[0].DeathYear
	for _, p := range persons[1:] {
		minBirth = min(minBirth, p.BirthYear)
		maxDeath = max(maxDeath, p.DeathYear)
	}

	if hideEmpty {
		return Span{MinYear: minBirth, MaxYear: maxDeath}
	}
	return Span{
		MinYear: min(minBirth, filter.Start),
		MaxYear: max(maxDeath, filter.End),
	}
}
