package timeline

import "fmt"

// CenturyYears is the width of a century bucket.
const CenturyYears = 100

// CenturyBoundaries returns the ascending century starts covering
// [minYear, maxYear]: from floor(minYear/100)*100 to ceil(maxYear/100)*100,
// both inclusive. Century c spans [c, c+99].
func CenturyBoundaries(minYear, maxYear int) []int {
	start := floorCentury(minYear)
	end := ceilCentury(maxYear)
	if end < start {
		return nil
	}
	out := make([]int, 0, (end-start)/CenturyYears+1)
	for c := start; c <= end; c += CenturyYears {
		out = append(out, c)
	}
	return out
}

// CenturyOf returns the start of the century containing year.
func CenturyOf(year int) int { return floorCentury(year) }

// EmptyCenturies returns a predicate reporting whether no person's
// [birth, death] interval intersects the century [c, c+99].
func EmptyCenturies(persons []Person) func(century int) bool {
	occupied := make(map[int]struct{})
	for _, p := range persons {
		if p.DeathYear < p.BirthYear {
			continue
		}
		for c := floorCentury(p.BirthYear); c <= p.DeathYear; c += CenturyYears {
			occupied[c] = struct{}{}
		}
	}
	return func(century int) bool {
		_, ok := occupied[century]
		return !ok
	}
}

// CenturyLabel formats a century start for display: "1800" or "300 BC".
func CenturyLabel(c int) string {
	if c < 0 {
		return fmt.Sprintf("%d BC", -c)
	}
	return fmt.Sprintf("%d", c)
}

// floorCentury rounds toward negative infinity, so that -50 maps to -100.
func floorCentury(y int) int {
	q := y / CenturyYears
	if y%CenturyYears != 0 && y < 0 {
		q--
	}
	return q * CenturyYears
}

func ceilCentury(y int) int {
	q := y / CenturyYears
	if y%CenturyYears != 0 && y > 0 {
		q++
	}
	return q * CenturyYears
}
