package timeline

// Vertical metrics of the row stack, in pixels.
const (
	RowHeight      = 60
	RowMargin      = 10
	EmptyRowHeight = 20

	// dividerLift moves a divider slightly above the first row of the next group.
	dividerLift = 5
)

// Divider marks the end of a group in the row stack.
//
// A boundary divider sits just above the first row of the following group and
// carries the label of the group it closes. The last group gets a Terminal
// divider placed at the top of the last row, which renderers use to label the
// final group; it does not mark a boundary between two groups.
type Divider struct {
	GroupLabel string  `json:"group_label"`
	TopPixel   float64 `json:"top"`
	Terminal   bool    `json:"terminal,omitempty"`
}

// RowExtent returns the height a row occupies in the stack, including its
// margin.
func RowExtent(r Row) float64 {
	if r.IsSpacer() {
		return EmptyRowHeight
	}
	return RowHeight + RowMargin
}

// RowTops returns the top offset of every row, starting at 0, and the height
// of the whole stack.
func RowTops(rows []Row) ([]float64, float64) {
	tops := make([]float64, len(rows))
	var y float64
	for i, r := range rows {
		tops[i] = y
		y += RowExtent(r)
	}
	return tops, y
}

// LocateDividers walks the finished rows and emits a divider wherever the
// group key of consecutive non-empty rows changes, followed by one Terminal
// divider for the last group. It returns nil for GroupByNone.
//
// The group key of a row is taken from its first member.
func LocateDividers(rows []Row, mode GroupingMode) []Divider {
	if mode == GroupByNone {
		return nil
	}

	var (
		dividers []Divider
		lastKey  string
		lastTop  float64
		seen     bool
		y        float64
	)
	for _, r := range rows {
		if r.IsSpacer() {
			y += EmptyRowHeight
			continue
		}
		key := GroupKey(r[0], mode)
		if seen && key != lastKey {
			dividers = append(dividers, Divider{GroupLabel: lastKey, TopPixel: y - dividerLift})
		}
		lastKey, lastTop, seen = key, y, true
		y += RowHeight + RowMargin
	}
	if seen {
		dividers = append(dividers, Divider{GroupLabel: lastKey, TopPixel: lastTop, Terminal: true})
	}
	return dividers
}

// BoundaryCount returns the number of non-terminal dividers.
func BoundaryCount(dividers []Divider) int {
	n := 0
	for _, d := range dividers {
		if !d.Terminal {
			n++
		}
	}
	return n
}
