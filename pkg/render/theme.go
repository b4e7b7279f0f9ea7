package render

import (
	"strings"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// Palette is the ordered list of bar colors. Groups get colors in order of
// first appearance in the rows, cycling when there are more groups.
type Palette []string

// DefaultPalette is a qualitative palette readable on light and dark
// backgrounds.
var DefaultPalette = Palette{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

func (p Palette) assign(l timeline.Layout) map[string]string {
	if len(p) == 0 {
		p = DefaultPalette
	}
	colors := make(map[string]string)
	for _, row := range l.Rows {
		for _, person := range row {
			key := groupOf(person, l.Grouping)
			if _, ok := colors[key]; !ok {
				colors[key] = p[len(colors)%len(p)]
			}
		}
	}
	return colors
}

// Theme holds the non-bar colors of a rendering.
type Theme struct {
	Name       string
	Background string
	Band       string
	BandAlt    string
	Gap        string
	Grid       string
	Text       string
	Muted      string
	Divider    string
	Reign      string
	Marker     string
}

// Built-in themes.
var (
	Light = Theme{
		Name:       "light",
		Background: "#ffffff",
		Band:       "#f7f7f7",
		BandAlt:    "#eeeeee",
		Gap:        "#d0d0d0",
		Grid:       "#cccccc",
		Text:       "#222222",
		Muted:      "#777777",
		Divider:    "#444444",
		Reign:      "rgba(0,0,0,0.35)",
		Marker:     "#222222",
	}
	Dark = Theme{
		Name:       "dark",
		Background: "#1e1e1e",
		Band:       "#262626",
		BandAlt:    "#2e2e2e",
		Gap:        "#555555",
		Grid:       "#444444",
		Text:       "#eeeeee",
		Muted:      "#999999",
		Divider:    "#bbbbbb",
		Reign:      "rgba(255,255,255,0.35)",
		Marker:     "#ffffff",
	}
)

// ParseTheme returns the built-in theme with the given name.
func ParseTheme(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Theme{}, apperr.New(apperr.ErrCodeInvalidInput, "unknown theme %q (must be one of: light, dark)", name)
}
