package timeline

// Defaults for Options.
const (
	DefaultPixelsPerYear  = 3.0
	DefaultLeftPadding    = 50.0
	DefaultViewportHeight = 800.0

	// HeaderHeight is the space above the first row reserved for the century
	// ruler.
	HeaderHeight = 40.0
)

// Options configures Build.
type Options struct {
	Grouping       GroupingMode
	Order          GroupOrder
	Filter         Filter
	PixelsPerYear  float64
	LeftPadding    float64
	ViewportHeight float64

	// Loading marks a dataset that is still being fetched. The persons are
	// ignored and a degenerate layout over the filter window is returned.
	Loading bool
}

func (o Options) withDefaults() Options {
	if o.PixelsPerYear <= 0 {
		o.PixelsPerYear = DefaultPixelsPerYear
	}
	if o.LeftPadding < 0 {
		o.LeftPadding = 0
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	return o
}

// Layout is the complete geometry of a timeline.
type Layout struct {
	Grouping      GroupingMode `json:"grouping"`
	MinYear       int          `json:"min_year"`
	MaxYear       int          `json:"max_year"`
	PixelsPerYear float64      `json:"pixels_per_year"`
	LeftPadding   float64      `json:"left_padding"`
	Compressed    bool         `json:"compressed,omitempty"`
	Boundaries    []int        `json:"boundaries"`
	Visible       []int        `json:"visible_centuries,omitempty"`
	Gaps          []Gap        `json:"gaps,omitempty"`
	TotalWidth    float64      `json:"total_width"`
	TotalHeight   float64      `json:"total_height"`
	Rows          []Row        `json:"rows"`
	Dividers      []Divider    `json:"dividers,omitempty"`
	Labels        []Label      `json:"labels,omitempty"`

	ShowAchievements bool `json:"show_achievements,omitempty"`

	// Scale is the year-to-pixel mapping every row, divider and boundary is
	// drawn with.
	Scale *Scale `json:"-"`

	rowTops []float64
}

// Build computes the full layout of persons under opts. It never fails: an
// empty or loading dataset yields no rows and a geometry spanning the filter
// window.
func Build(persons []Person, opts Options) Layout {
	opts = opts.withDefaults()

	var selected []Person
	if !opts.Loading {
		selected = SortPersons(opts.Filter.Apply(persons), opts.Grouping, opts.Order)
	}

	hide := opts.Filter.HideEmptyCenturies
	span := ResolveRange(selected, opts.Filter.TimeRange, hide)
	boundaries := CenturyBoundaries(span.MinYear, span.MaxYear)

	var scale *Scale
	if hide {
		scale = NewCompressedScale(span.MinYear, boundaries, EmptyCenturies(selected), opts.PixelsPerYear, opts.LeftPadding)
	} else {
		scale = NewLinearScale(span.MinYear, boundaries, opts.PixelsPerYear, opts.LeftPadding)
	}

	rows := Place(selected, opts.Grouping, opts.Order)
	tops, stack := RowTops(rows)
	for i := range tops {
		tops[i] += HeaderHeight
	}
	dividers := LocateDividers(rows, opts.Grouping)
	for i := range dividers {
		dividers[i].TopPixel += HeaderHeight
	}
	totalHeight := HeaderHeight + stack

	return Layout{
		Grouping:         opts.Grouping,
		MinYear:          span.MinYear,
		MaxYear:          span.MaxYear,
		PixelsPerYear:    opts.PixelsPerYear,
		LeftPadding:      opts.LeftPadding,
		Compressed:       scale.Compressed(),
		Boundaries:       boundaries,
		Visible:          scale.VisibleCenturies(),
		Gaps:             scale.Gaps(),
		TotalWidth:       scale.TotalWidth(),
		TotalHeight:      totalHeight,
		Rows:             rows,
		Dividers:         dividers,
		Labels:           RepeatingLabels(scale, opts.ViewportHeight, totalHeight),
		ShowAchievements: opts.Filter.ShowAchievements,
		Scale:            scale,
		rowTops:          tops,
	}
}

// RowTop returns the top pixel of row i.
func (l Layout) RowTop(i int) float64 {
	if i < len(l.rowTops) {
		return l.rowTops[i]
	}
	tops, _ := RowTops(l.Rows)
	return tops[i] + HeaderHeight
}

// PersonCount returns the number of placed persons.
func (l Layout) PersonCount() int {
	n := 0
	for _, r := range l.Rows {
		n += len(r)
	}
	return n
}

// Rescale rebuilds the Scale and row offsets of a decoded layout from its
// serialized fields. Layouts read back from JSON carry neither.
func (l *Layout) Rescale() {
	tops, _ := RowTops(l.Rows)
	for i := range tops {
		tops[i] += HeaderHeight
	}
	l.rowTops = tops

	if !l.Compressed {
		l.Scale = NewLinearScale(l.MinYear, l.Boundaries, l.PixelsPerYear, l.LeftPadding)
		return
	}
	visible := make(map[int]bool, len(l.Visible))
	for _, c := range l.Visible {
		visible[c] = true
	}
	isEmpty := func(c int) bool { return !visible[c] }
	l.Scale = NewCompressedScale(l.MinYear, l.Boundaries, isEmpty, l.PixelsPerYear, l.LeftPadding)
}
