package timeline

// GapYears is the visual width, in years, of a compressed gap regardless of
// how many centuries it hides.
const GapYears = 10

// Gap is a run of empty centuries collapsed to GapYears visual years.
type Gap struct {
	StartYear       int   `json:"start_year"`
	EndYear         int   `json:"end_year"`
	HiddenCenturies []int `json:"hidden_centuries"`
}

// Years returns the number of real years the gap hides.
func (g Gap) Years() int { return g.EndYear - g.StartYear }

// Scale maps years to horizontal pixel positions.
//
// A linear scale is affine. A compressed scale subtracts the hidden width of
// every gap that ends at or before the year, so its slope drops inside gaps;
// it remains monotonic non-decreasing.
type Scale struct {
	MinYear       int
	PixelsPerYear float64
	LeftPadding   float64

	compressed bool
	gaps       []Gap
	visible    []int
	boundaries []int
}

// NewLinearScale returns the uncompressed mapping
// Position(y) = (y - minYear) * pixelsPerYear + leftPadding.
func NewLinearScale(minYear int, boundaries []int, pixelsPerYear, leftPadding float64) *Scale {
	return &Scale{
		MinYear:       minYear,
		PixelsPerYear: pixelsPerYear,
		LeftPadding:   leftPadding,
		visible:       boundaries,
		boundaries:    boundaries,
	}
}

// NewCompressedScale returns a scale that collapses every run of empty
// centuries between two visible centuries into a Gap. isEmpty reports
// whether a century (by its start year) holds no person.
//
// When no century is visible there is nothing to anchor the compression and
// the linear scale is returned.
func NewCompressedScale(minYear int, boundaries []int, isEmpty func(century int) bool, pixelsPerYear, leftPadding float64) *Scale {
	var visible []int
	for _, c := range boundaries {
		if !isEmpty(c) {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 {
		return NewLinearScale(minYear, boundaries, pixelsPerYear, leftPadding)
	}

	var gaps []Gap
	for i := 1; i < len(visible); i++ {
		prev, next := visible[i-1], visible[i]
		if next-prev <= CenturyYears {
			continue
		}
		var hidden []int
		for c := prev + CenturyYears; c < next; c += CenturyYears {
			hidden = append(hidden, c)
		}
		gaps = append(gaps, Gap{
			StartYear:       prev + CenturyYears,
			EndYear:         next,
			HiddenCenturies: hidden,
		})
	}

	return &Scale{
		MinYear:       minYear,
		PixelsPerYear: pixelsPerYear,
		LeftPadding:   leftPadding,
		compressed:    true,
		gaps:          gaps,
		visible:       visible,
		boundaries:    boundaries,
	}
}

// Compressed reports whether the scale hides empty centuries.
func (s *Scale) Compressed() bool { return s.compressed }

// Gaps returns the collapsed ranges in ascending order.
func (s *Scale) Gaps() []Gap { return s.gaps }

// VisibleCenturies returns the century starts that are drawn: every boundary
// for a linear scale, the non-empty ones for a compressed scale.
func (s *Scale) VisibleCenturies() []int { return s.visible }

// Centuries returns the century starts drawn as bands. The last boundary of
// a linear scale only closes the axis and is not included.
func (s *Scale) Centuries() []int {
	if !s.compressed && len(s.visible) > 1 {
		return s.visible[:len(s.visible)-1]
	}
	return s.visible
}

// Boundaries returns every century boundary the scale was built from.
func (s *Scale) Boundaries() []int { return s.boundaries }

// GapWidth returns the pixel width of a compressed gap.
func (s *Scale) GapWidth() float64 { return s.PixelsPerYear * GapYears }

// Position returns the x coordinate of year.
func (s *Scale) Position(year int) float64 {
	return s.PositionF(float64(year))
}

// PositionF is Position for fractional years.
func (s *Scale) PositionF(year float64) float64 {
	x := (year-float64(s.MinYear))*s.PixelsPerYear + s.LeftPadding
	if !s.compressed {
		return x
	}
	comp := s.GapWidth()
	for _, g := range s.gaps {
		start, end := float64(g.StartYear), float64(g.EndYear)
		orig := (end - start) * s.PixelsPerYear
		switch {
		case end <= year:
			x -= orig - comp
		case start < year:
			// Inside the gap: spread the gap's compressed width over its years.
			x -= (year - start) * s.PixelsPerYear
			x += (year - start) / (end - start) * comp
			return x
		default:
			return x
		}
	}
	return x
}

// Width returns Position(y2) - Position(y1).
func (s *Scale) Width(y1, y2 int) float64 {
	if !s.compressed {
		return float64(y2-y1) * s.PixelsPerYear
	}
	return s.Position(y2) - s.Position(y1)
}

// TotalWidth returns the pixel width of the whole timeline.
//
// A compressed timeline is LeftPadding plus one century width per visible
// century plus one gap width per gap. A linear timeline extends to the last
// century boundary with LeftPadding of margin on the right.
func (s *Scale) TotalWidth() float64 {
	if s.compressed {
		return s.LeftPadding +
			float64(len(s.visible))*s.PixelsPerYear*CenturyYears +
			float64(len(s.gaps))*s.GapWidth()
	}
	if len(s.boundaries) == 0 {
		return 2 * s.LeftPadding
	}
	return s.Position(s.boundaries[len(s.boundaries)-1]) + s.LeftPadding
}

// GapAt returns the gap containing year, if any.
func (s *Scale) GapAt(year int) (Gap, bool) {
	for _, g := range s.gaps {
		if year >= g.StartYear && year < g.EndYear {
			return g, true
		}
	}
	return Gap{}, false
}
