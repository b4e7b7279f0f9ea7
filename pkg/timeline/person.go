package timeline

import (
	"fmt"
	"strings"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

// MaxAchievements is the number of achievement markers kept per person.
const MaxAchievements = 3

// Person is a single life-span record.
//
// BirthYear must not exceed DeathYear. The engine does not check this; a
// malformed record is laid out on a best-effort basis.
type Person struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	BirthYear    int           `json:"birth"`
	DeathYear    int           `json:"death"`
	Category     string        `json:"category"`
	Country      string        `json:"country"`
	ReignStart   *int          `json:"reign_start,omitempty"`
	ReignEnd     *int          `json:"reign_end,omitempty"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

// Achievement marks a notable year within a person's life. Display only.
type Achievement struct {
	Year  int    `json:"year"`
	Label string `json:"label,omitempty"`
}

// PrimaryCountry returns the country used for grouping: the part of Country
// before the first "/".
func (p Person) PrimaryCountry() string {
	return PrimaryCountry(p.Country)
}

// Countries returns every "/"-separated country of the person.
func (p Person) Countries() []string {
	if p.Country == "" {
		return nil
	}
	parts := strings.Split(p.Country, "/")
	out := make([]string, 0, len(parts))
	for _, c := range parts {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// HasReign reports whether both reign bounds are set.
func (p Person) HasReign() bool {
	return p.ReignStart != nil && p.ReignEnd != nil
}

// Lifespan returns DeathYear - BirthYear.
func (p Person) Lifespan() int { return p.DeathYear - p.BirthYear }

// PrimaryCountry returns the part of a "/"-joined country value before the
// first separator.
func PrimaryCountry(country string) string {
	if i := strings.IndexByte(country, '/'); i >= 0 {
		country = country[:i]
	}
	return strings.TrimSpace(country)
}

// GroupingMode selects how persons are bucketed before row placement.
type GroupingMode int

const (
	// GroupByCategory buckets persons by Category.
	GroupByCategory GroupingMode = iota
	// GroupByCountry buckets persons by their primary country.
	GroupByCountry
	// GroupByNone places all persons in a single bucket.
	GroupByNone
)

// String returns the configuration name of the mode.
func (m GroupingMode) String() string {
	switch m {
	case GroupByCategory:
		return "category"
	case GroupByCountry:
		return "country"
	case GroupByNone:
		return "none"
	}
	return fmt.Sprintf("GroupingMode(%d)", int(m))
}

// ParseGroupingMode parses "category", "country" or "none".
// Any other value is rejected; there is no implicit fallback.
func ParseGroupingMode(s string) (GroupingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category":
		return GroupByCategory, nil
	case "country":
		return GroupByCountry, nil
	case "none":
		return GroupByNone, nil
	}
	return 0, apperr.New(apperr.ErrCodeInvalidGrouping, "unknown grouping %q (must be one of: category, country, none)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m GroupingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *GroupingMode) UnmarshalText(b []byte) error {
	v, err := ParseGroupingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// GroupKey returns the group key of p under mode, or "" for GroupByNone.
func GroupKey(p Person, mode GroupingMode) string {
	switch mode {
	case GroupByCategory:
		return p.Category
	case GroupByCountry:
		return p.PrimaryCountry()
	case GroupByNone:
		return ""
	}
	return ""
}

// GroupOrder is the externally supplied priority order of group keys. It
// defines both the placement order and the divider order.
type GroupOrder []string

// Index returns the position of key in the order, or -1.
func (o GroupOrder) Index(key string) int {
	for i, k := range o {
		if k == key {
			return i
		}
	}
	return -1
}

// Row is an ordered set of persons whose buffered intervals do not overlap.
// An empty Row is a spacer rendered between two groups.
type Row []Person

// IsSpacer reports whether the row is a group spacer.
func (r Row) IsSpacer() bool { return len(r) == 0 }
