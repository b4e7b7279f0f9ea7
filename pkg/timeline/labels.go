package timeline

import (
	"fmt"
	"math"
)

// labelRepeat is the fraction of the viewport height between two bands of
// repeated century labels.
const labelRepeat = 0.9

// MaxLabelBands caps the number of repeated label bands. Taller layouts
// spread the bands out instead of adding more.
const MaxLabelBands = 200

// Label is a century or gap caption placed on the timeline.
type Label struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Gap  bool    `json:"gap,omitempty"`
}

// RepeatingLabels places one label per visible century and per gap, centred
// on its span under s, and repeats the whole band every 0.9 viewport heights
// from the top while the band starts within totalHeight. A non-positive
// viewport height yields a single band at y = 0. At most MaxLabelBands
// bands are placed.
func RepeatingLabels(s *Scale, viewportHeight, totalHeight float64) []Label {
	band := labelBand(s)
	if len(band) == 0 {
		return nil
	}

	step := viewportHeight * labelRepeat
	if !(step > 0) || math.IsInf(step, 0) {
		return band
	}
	n := 1
	if totalHeight > 0 && !math.IsInf(totalHeight, 1) {
		bands := math.Ceil(totalHeight / step)
		if bands > MaxLabelBands {
			bands, step = MaxLabelBands, totalHeight/MaxLabelBands
		}
		n = int(bands)
	}

	out := make([]Label, 0, n*len(band))
	for i := range n {
		for _, l := range band {
			l.Y = float64(i) * step
			out = append(out, l)
		}
	}
	return out
}

func labelBand(s *Scale) []Label {
	var band []Label
	for _, c := range s.Centuries() {
		band = append(band, Label{
			Text: CenturyLabel(c),
			X:    (s.Position(c) + s.Position(c+CenturyYears)) / 2,
		})
	}
	for _, g := range s.Gaps() {
		band = append(band, Label{
			Text: GapLabel(g),
			X:    (s.Position(g.StartYear) + s.Position(g.EndYear)) / 2,
			Gap:  true,
		})
	}
	return band
}

// GapLabel formats the hidden range of a gap, e.g. "300 BC – 0".
func GapLabel(g Gap) string {
	return fmt.Sprintf("%s – %s", CenturyLabel(g.StartYear), CenturyLabel(g.EndYear))
}
