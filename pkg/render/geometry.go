package render

import (
	"strconv"

	"github.com/matzehuels/chronoline/pkg/timeline"
)

// Vertical placement of a bar inside its row.
const (
	barOffset     = 20.0
	barHeight     = 24.0
	reignInset    = 4.0
	nameBaseline  = 14.0
	minBarWidth   = 2.0
	markerRadius  = 4.0
	labelBaseline = 25.0
)

// Bar is the drawn geometry of one person.
type Bar struct {
	Person timeline.Person `json:"-"`
	Row    int             `json:"row"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	// NameY is the baseline of the name caption above the bar.
	NameY float64 `json:"name_y"`
	Color string  `json:"color"`

	Reign   *Span    `json:"reign,omitempty"`
	Markers []Marker `json:"achievements,omitempty"`
}

// Span is a horizontal extent within a bar.
type Span struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// Marker is an achievement drawn on a bar.
type Marker struct {
	X     float64 `json:"x"`
	Year  int     `json:"year"`
	Label string  `json:"label,omitempty"`
}

// Bars computes the geometry of every placed person. Achievements are only
// included when the layout shows them.
func Bars(l timeline.Layout, palette Palette) []Bar {
	if l.Scale == nil {
		l.Rescale()
	}
	colors := palette.assign(l)

	var bars []Bar
	for i, row := range l.Rows {
		top := l.RowTop(i)
		for _, p := range row {
			b := Bar{
				Person: p,
				Row:    i,
				X:      l.Scale.Position(p.BirthYear),
				Y:      top + barOffset,
				Width:  max(minBarWidth, l.Scale.Width(p.BirthYear, p.DeathYear)),
				Height: barHeight,
				NameY:  top + nameBaseline,
				Color:  colors[groupOf(p, l.Grouping)],
			}
			if p.HasReign() {
				b.Reign = &Span{
					X:     l.Scale.Position(*p.ReignStart),
					Width: max(minBarWidth, l.Scale.Width(*p.ReignStart, *p.ReignEnd)),
				}
			}
			if l.ShowAchievements {
				for _, a := range p.Achievements {
					b.Markers = append(b.Markers, Marker{X: l.Scale.Position(a.Year), Year: a.Year, Label: a.Label})
				}
			}
			bars = append(bars, b)
		}
	}
	return bars
}

// groupOf is the key colors are assigned by. Ungrouped layouts are colored
// by category.
func groupOf(p timeline.Person, mode timeline.GroupingMode) string {
	if mode == timeline.GroupByNone {
		return p.Category
	}
	return timeline.GroupKey(p, mode)
}

// FormatYear renders a year for captions: "44 BC" or "1643".
func FormatYear(y int) string {
	if y < 0 {
		return strconv.Itoa(-y) + " BC"
	}
	return strconv.Itoa(y)
}

// Lifespan renders "birth – death" for captions.
func Lifespan(p timeline.Person) string {
	return FormatYear(p.BirthYear) + " – " + FormatYear(p.DeathYear)
}
