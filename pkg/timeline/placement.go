package timeline

// Buffer is the visual margin, in years, added to both ends of every
// interval before the overlap test.
const Buffer = 20

// Place assigns persons to rows. Persons must already be sorted by birth
// year.
//
// With GroupByNone all persons share one bucket. Otherwise persons are
// bucketed by group key and the buckets are laid out in order, skipping
// groups without persons; an empty spacer Row separates consecutive buckets.
// Persons whose key does not appear in order are not placed.
//
// Within a bucket each person goes into the first row that accepts it (see
// [Accepts]), or into a new row when none does.
func Place(persons []Person, mode GroupingMode, order GroupOrder) []Row {
	if mode == GroupByNone {
		return firstFit(persons)
	}

	buckets := make(map[string][]Person, len(order))
	for _, p := range persons {
		key := GroupKey(p, mode)
		buckets[key] = append(buckets[key], p)
	}

	var present [][]Person
	seen := make(map[string]bool, len(order))
	for _, key := range order {
		if seen[key] {
			continue
		}
		seen[key] = true
		if b := buckets[key]; len(b) > 0 {
			present = append(present, b)
		}
	}

	var rows []Row
	for i, b := range present {
		rows = append(rows, firstFit(b)...)
		if i < len(present)-1 {
			rows = append(rows, Row{})
		}
	}
	return rows
}

// Accepts reports whether p can join row without overlapping any member
// under the buffered-interval test.
func Accepts(row Row, p Person) bool {
	for _, e := range row {
		if Overlaps(p, e) {
			return false
		}
	}
	return true
}

// Overlaps reports whether the buffered interval of p touches e.
func Overlaps(p, e Person) bool {
	return p.BirthYear-Buffer <= e.DeathYear && p.DeathYear+Buffer >= e.BirthYear
}

func firstFit(persons []Person) []Row {
	var rows []Row
	for _, p := range persons {
		placed := false
		for i := range rows {
			if Accepts(rows[i], p) {
				rows[i] = append(rows[i], p)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, Row{p})
		}
	}
	return rows
}
