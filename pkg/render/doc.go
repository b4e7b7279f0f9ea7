// Package render draws a computed [timeline.Layout].
//
// # Overview
//
// Renderers never place anything themselves: every x coordinate comes from
// the layout's [timeline.Scale] and every y coordinate from its row tops and
// dividers. Three sinks share one geometry pass ([Bars]):
//
//   - [RenderSVG]: the interactive timeline with century bands, hatched
//     gaps, repeated century labels, group dividers, life bars, reign
//     sub-bars and achievement markers
//   - [RenderJSON]: the same drawing as a flat list of shapes for web
//     front ends
//   - [RenderText]: a fixed-width terminal preview
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output using the external rsvg-convert tool
// (from librsvg).
//
//	svg := render.RenderSVG(l, render.WithTitle("Antiquity"))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
