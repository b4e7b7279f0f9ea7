package pipeline

import (
	"fmt"

	"github.com/matzehuels/chronoline/pkg/render"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// Render generates output artifacts in the requested formats. Options must
// have passed ValidateForRender.
func Render(l timeline.Layout, opts Options) (map[string][]byte, error) {
	if l.Scale == nil {
		l.Rescale()
	}

	artifacts := make(map[string][]byte, len(opts.Formats))

	// PNG and PDF are rasterized from the SVG; render it at most once.
	var svg []byte
	svgFor := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		svgOpts, err := buildSVGOptions(opts)
		if err != nil {
			return nil, err
		}
		svg = render.RenderSVG(l, svgOpts...)
		return svg, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgFor()
		case FormatPNG:
			if data, err = svgFor(); err == nil {
				data, err = render.ToPNG(data, pngScale)
			}
		case FormatPDF:
			if data, err = svgFor(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatJSON:
			data, err = render.RenderJSON(l, render.WithJSONIndent())
		case FormatText:
			data = []byte(render.RenderText(l, opts.TextWidth))
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]render.SVGOption, error) {
	theme, err := render.ParseTheme(opts.Theme)
	if err != nil {
		return nil, err
	}
	svgOpts := []render.SVGOption{render.WithTheme(theme)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	if opts.NoGrid {
		svgOpts = append(svgOpts, render.WithoutGrid())
	}
	return svgOpts, nil
}
