package render

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/chronoline/pkg/timeline"
)

// MinTextWidth is the narrowest preview RenderText draws.
const MinTextWidth = 20

// Cell glyphs of the text preview.
const (
	glyphBar    = '='
	glyphReign  = '#'
	glyphMarker = '*'
	glyphGap    = '~'
	glyphRule   = '-'
)

// textCanvas is one line of fixed-width cells. A wide rune occupies its cell
// and leaves the next one empty.
type textCanvas []string

func newCanvas(width int, fill rune) textCanvas {
	c := make(textCanvas, width)
	for i := range c {
		c[i] = string(fill)
	}
	return c
}

func (c textCanvas) set(col int, r rune) {
	if col >= 0 && col < len(c) {
		c[col] = string(r)
	}
}

// write places s at col, clipped to maxWidth cells and the line end.
func (c textCanvas) write(col int, s string, maxWidth int) {
	if col < 0 || col >= len(c) {
		return
	}
	maxWidth = min(maxWidth, len(c)-col)
	if maxWidth <= 0 {
		return
	}
	s = runewidth.Truncate(s, maxWidth, "…")
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > len(c) {
			break
		}
		c[col] = string(r)
		for i := 1; i < w; i++ {
			c[col+i] = ""
		}
		col += w
	}
}

func (c textCanvas) String() string {
	return strings.TrimRight(strings.Join(c, ""), " ")
}

// RenderText draws a fixed-width preview of the layout, width cells wide.
// Each row of the layout becomes one line; spacer rows become a rule; the
// first line is the century ruler.
func RenderText(l timeline.Layout, width int) string {
	width = max(width, MinTextWidth)
	if l.Scale == nil {
		l.Rescale()
	}

	col := func(x float64) int {
		if l.TotalWidth <= 0 {
			return 0
		}
		c := int(math.Floor(x / l.TotalWidth * float64(width)))
		return max(0, min(width-1, c))
	}

	background := newCanvas(width, ' ')
	for _, g := range l.Scale.Gaps() {
		for c := col(l.Scale.Position(g.StartYear)); c <= col(l.Scale.Position(g.EndYear)); c++ {
			background.set(c, glyphGap)
		}
	}
	fresh := func() textCanvas { return append(textCanvas(nil), background...) }

	var lines []string

	ruler := fresh()
	for _, c := range l.Scale.Centuries() {
		x := col(l.Scale.Position(c))
		ruler.set(x, '|')
		ruler.write(x+1, timeline.CenturyLabel(c), col(l.Scale.Position(c+timeline.CenturyYears))-x-1)
	}
	lines = append(lines, ruler.String())

	bars := Bars(l, nil)
	byRow := make(map[int][]Bar, len(l.Rows))
	for _, b := range bars {
		byRow[b.Row] = append(byRow[b.Row], b)
	}

	prevGroup := ""
	for i, row := range l.Rows {
		if row.IsSpacer() {
			lines = append(lines, newCanvas(width, glyphRule).String())
			continue
		}
		if l.Grouping != timeline.GroupByNone {
			if g := timeline.GroupKey(row[0], l.Grouping); g != prevGroup || i == 0 {
				header := newCanvas(width, ' ')
				header.write(0, "["+g+"]", width)
				lines = append(lines, header.String())
				prevGroup = g
			}
		}

		line := fresh()
		for _, b := range byRow[i] {
			c0, c1 := col(b.X), col(b.X+b.Width)
			for c := c0; c <= c1; c++ {
				line.set(c, glyphBar)
			}
			if b.Reign != nil {
				for c := col(b.Reign.X); c <= col(b.Reign.X+b.Reign.Width); c++ {
					line.set(c, glyphReign)
				}
			}
			for _, m := range b.Markers {
				line.set(col(m.X), glyphMarker)
			}
			if span := c1 - c0 - 1; span >= 3 {
				line.write(c0+1, b.Person.Name, span)
			}
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n") + "\n"
}
