package render

import (
	"encoding/json"

	"github.com/matzehuels/chronoline/pkg/timeline"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	palette Palette
	indent  bool
}

// WithJSONPalette overrides the bar colors.
func WithJSONPalette(p Palette) JSONOption { return func(r *jsonRenderer) { r.palette = p } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Header     float64            `json:"header_height"`
	MinYear    int                `json:"min_year"`
	MaxYear    int                `json:"max_year"`
	Compressed bool               `json:"compressed,omitempty"`
	Centuries  []jsonCentury      `json:"centuries"`
	Gaps       []jsonGap          `json:"gaps,omitempty"`
	Labels     []timeline.Label   `json:"labels,omitempty"`
	Dividers   []timeline.Divider `json:"dividers,omitempty"`
	Persons    []jsonPerson       `json:"persons"`
}

type jsonCentury struct {
	Start int     `json:"start"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

type jsonGap struct {
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Width     float64 `json:"width"`
}

type jsonPerson struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Birth    int    `json:"birth"`
	Death    int    `json:"death"`
	Category string `json:"category,omitempty"`
	Country  string `json:"country,omitempty"`
	Bar
}

// RenderJSON emits the drawing as flat shapes in pixel coordinates.
func RenderJSON(l timeline.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	if l.Scale == nil {
		l.Rescale()
	}

	out := jsonOutput{
		Width:      l.TotalWidth,
		Height:     l.TotalHeight,
		Header:     timeline.HeaderHeight,
		MinYear:    l.MinYear,
		MaxYear:    l.MaxYear,
		Compressed: l.Compressed,
		Labels:     l.Labels,
		Dividers:   l.Dividers,
		Centuries:  []jsonCentury{},
		Persons:    []jsonPerson{},
	}
	for _, c := range l.Scale.Centuries() {
		x := l.Scale.Position(c)
		out.Centuries = append(out.Centuries, jsonCentury{
			Start: c,
			Label: timeline.CenturyLabel(c),
			X:     x,
			Width: l.Scale.Position(c+timeline.CenturyYears) - x,
		})
	}
	for _, g := range l.Scale.Gaps() {
		x := l.Scale.Position(g.StartYear)
		out.Gaps = append(out.Gaps, jsonGap{
			StartYear: g.StartYear,
			EndYear:   g.EndYear,
			Label:     timeline.GapLabel(g),
			X:         x,
			Width:     l.Scale.Position(g.EndYear) - x,
		})
	}
	for _, b := range Bars(l, r.palette) {
		p := b.Person
		out.Persons = append(out.Persons, jsonPerson{
			ID: p.ID, Name: p.Name, Birth: p.BirthYear, Death: p.DeathYear,
			Category: p.Category, Country: p.Country,
			Bar: b,
		})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
