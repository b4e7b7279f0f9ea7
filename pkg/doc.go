// Package pkg provides the core libraries behind chronoline.
//
// # Overview
//
// Chronoline lays the lives of historical persons out as horizontal bars on a
// timeline. Bars are packed into rows so that no two lives in a row overlap,
// rows are grouped by category or country, and centuries nobody lived in can
// be compressed into narrow gaps.
//
// # Architecture
//
//	JSON / YAML / CSV file, SQLite store, MongoDB
//	         ↓
//	    [dataset] (persons + group order, validation warnings)
//	         ↓
//	    [timeline] (filter, sort, place, scale, dividers, labels)
//	         ↓
//	    [render] (SVG, JSON, text; PNG and PDF via rsvg-convert)
//
// [pipeline] runs these stages behind a [cache] and reports them to
// [observability] hooks. The CLI and the HTTP API both go through it, so the
// same options produce the same bytes everywhere.
//
// # Quick Start
//
//	d, _ := dataset.Load("people.json")
//	l := timeline.Build(d.Persons, timeline.Options{
//	    Grouping: timeline.GroupByCategory,
//	    Order:    d.GroupOrder(timeline.GroupByCategory),
//	    Filter:   timeline.Filter{TimeRange: timeline.TimeRange{Start: -800, End: 2000}},
//	})
//	svg := render.RenderSVG(l, render.WithTheme(render.Dark))
//
// Or with caching and option defaults:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Source:  "people.json",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// # Packages
//
// [timeline] - The layout engine: row placement, the year-to-pixel scale with
// optional compression, group dividers and repeating century labels.
//
// [dataset] - Reading and writing person datasets; [dataset/store] keeps them
// in SQLite and [dataset/mongo] reads them from MongoDB.
//
// [render] - Output sinks for a finished layout.
//
// [pipeline] - Options, validation, and the cached load → layout → render
// Runner.
//
// [cache] - File, Redis and no-op caches keyed by content hash.
//
// [errors] - Error codes shared by the CLI and the API.
//
// [timeline]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/timeline
// [dataset]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/dataset
// [dataset/store]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/dataset/store
// [dataset/mongo]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/dataset/mongo
// [render]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/chronoline/pkg/errors
package pkg
