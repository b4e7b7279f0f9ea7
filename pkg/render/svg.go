package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/chronoline/pkg/timeline"
)

const personInteractionCSS = `
    .person .bar { transition: stroke-width 0.15s ease; stroke: none; }
    .person:hover .bar { stroke: %[1]s; stroke-width: 2; }
    .person .name { font: 11px sans-serif; fill: %[1]s; }
    .person:hover .name { font-weight: bold; }
    .century-label { font: bold 12px sans-serif; fill: %[2]s; text-anchor: middle; }
    .gap-label { font: italic 10px sans-serif; fill: %[2]s; text-anchor: middle; }
    .group-label { font: bold 12px sans-serif; fill: %[3]s; }
    .title { font: bold 16px sans-serif; fill: %[1]s; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme   Theme
	palette Palette
	title   string
	grid    bool
}

// WithTheme selects the background, band and text colors.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithPalette overrides the bar colors.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithTitle draws a caption in the header.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithoutGrid omits the century boundary lines.
func WithoutGrid() SVGOption { return func(r *svgRenderer) { r.grid = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{theme: Light, palette: DefaultPalette, grid: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the layout as a standalone SVG document.
func RenderSVG(l timeline.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	if l.Scale == nil {
		l.Rescale()
	}
	w, h := l.TotalWidth, l.TotalHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>"+personInteractionCSS+"\n  </style>\n", r.theme.Text, r.theme.Muted, r.theme.Divider)
	renderDefs(&buf, r.theme)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, r.theme.Background)

	renderBands(&buf, l, r)
	renderLabels(&buf, l)
	renderDividers(&buf, l, r.theme)
	for _, b := range Bars(l, r.palette) {
		renderBar(&buf, b, r.theme)
	}
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f">%s</text>`+"\n", 8.0, 18.0, escape(r.title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, t Theme) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="gap-hatch" width="6" height="6" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">`+
		`<line x1="0" y1="0" x2="0" y2="6" stroke="%s" stroke-width="2"/></pattern>`+"\n", t.Gap)
	buf.WriteString("  </defs>\n")
}

func renderBands(buf *bytes.Buffer, l timeline.Layout, r svgRenderer) {
	h := l.TotalHeight
	for i, c := range l.Scale.Centuries() {
		x0, x1 := l.Scale.Position(c), l.Scale.Position(c+timeline.CenturyYears)
		fill := r.theme.Band
		if i%2 == 1 {
			fill = r.theme.BandAlt
		}
		fmt.Fprintf(buf, `  <rect class="century" data-century="%d" x="%.1f" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			c, x0, x1-x0, h, fill)
		if r.grid {
			fmt.Fprintf(buf, `  <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
				x0, x0, h, r.theme.Grid)
		}
	}
	for _, g := range l.Scale.Gaps() {
		x0, x1 := l.Scale.Position(g.StartYear), l.Scale.Position(g.EndYear)
		fmt.Fprintf(buf, `  <rect class="gap" x="%.1f" y="0" width="%.1f" height="%.1f" fill="url(#gap-hatch)">`+
			`<title>%s hidden</title></rect>`+"\n", x0, x1-x0, h, escape(timeline.GapLabel(g)))
	}
}

func renderLabels(buf *bytes.Buffer, l timeline.Layout) {
	for _, lb := range l.Labels {
		class := "century-label"
		if lb.Gap {
			class = "gap-label"
		}
		fmt.Fprintf(buf, `  <text class="%s" x="%.1f" y="%.1f">%s</text>`+"\n",
			class, lb.X, lb.Y+labelBaseline, escape(lb.Text))
	}
}

func renderDividers(buf *bytes.Buffer, l timeline.Layout, t Theme) {
	for _, d := range l.Dividers {
		if !d.Terminal {
			fmt.Fprintf(buf, `  <line class="divider" x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
				d.TopPixel, l.TotalWidth, d.TopPixel, t.Divider)
		}
		fmt.Fprintf(buf, `  <text class="group-label" x="4" y="%.1f">%s</text>`+"\n", d.TopPixel-4, escape(d.GroupLabel))
	}
}

func renderBar(buf *bytes.Buffer, b Bar, t Theme) {
	p := b.Person
	fmt.Fprintf(buf, `  <g class="person" id="person-%s">`+"\n", escape(p.ID))
	fmt.Fprintf(buf, `    <title>%s (%s)</title>`+"\n", escape(p.Name), Lifespan(p))
	fmt.Fprintf(buf, `    <rect class="bar" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, b.Color)
	if b.Reign != nil {
		fmt.Fprintf(buf, `    <rect class="reign" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			b.Reign.X, b.Y+reignInset, b.Reign.Width, b.Height-2*reignInset, t.Reign)
	}
	for _, m := range b.Markers {
		fmt.Fprintf(buf, `    <circle class="achievement" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s: %s</title></circle>`+"\n",
			m.X, b.Y+b.Height/2, markerRadius, t.Marker, FormatYear(m.Year), escape(m.Label))
	}
	fmt.Fprintf(buf, `    <text class="name" x="%.1f" y="%.1f">%s</text>`+"\n", b.X, b.NameY, escape(p.Name))
	buf.WriteString("  </g>\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
