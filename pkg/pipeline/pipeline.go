// Package pipeline provides the load → layout → render pipeline for
// Chronoline.
//
// The CLI and the HTTP server both go through this package, so a timeline
// rendered by `chronoline render` is byte-identical to the one served by
// `/api/timeline.svg` for the same options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a dataset file (JSON, YAML or CSV) or take a dataset that
//     was already read from the store or MongoDB
//  2. Layout: Filter, group, place and scale the persons ([timeline.Build])
//  3. Render: Generate output in various formats (SVG, JSON, text, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage is cached by content hash when the Runner has a cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:   "people.json",
//	    Grouping: "category",
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chronoline/pkg/cache"
	"github.com/matzehuels/chronoline/pkg/dataset"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/render"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStart and DefaultEnd bound the filter window when none is given.
	DefaultStart = -800
	DefaultEnd   = 2000

	// DefaultGrouping is the default row grouping.
	DefaultGrouping = "category"

	// DefaultTextWidth is the column count of the text rendering.
	DefaultTextWidth = 120

	// DefaultTheme is the default SVG color theme.
	DefaultTheme = "light"

	// MinViewportHeight is the smallest accepted viewport. Century labels
	// repeat once per 0.9 viewport heights, so tiny viewports would emit a
	// label band every few pixels.
	MinViewportHeight = 100.0

	// MaxPixelsPerYear bounds the horizontal scale; 100 px/year already
	// draws 2800 years about 280000 px wide.
	MaxPixelsPerYear = 100.0

	// pngScale is the rasterization factor for PNG output.
	pngScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "txt"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the timeline pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source  string `json:"source,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Grouping           string   `json:"grouping,omitempty"`
	Order              []string `json:"order,omitempty"` // overrides the dataset's group order
	Categories         []string `json:"categories,omitempty"`
	Countries          []string `json:"countries,omitempty"`
	Start              *int     `json:"start,omitempty"`
	End                *int     `json:"end,omitempty"`
	HideEmptyCenturies bool     `json:"hide_empty_centuries,omitempty"`
	ShowAchievements   bool     `json:"show_achievements,omitempty"`
	PixelsPerYear      float64  `json:"pixels_per_year,omitempty"`
	LeftPadding        *float64 `json:"left_padding,omitempty"`
	ViewportHeight     float64  `json:"viewport_height,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	Title     string   `json:"title,omitempty"`
	TextWidth int      `json:"text_width,omitempty"`
	NoGrid    bool     `json:"no_grid,omitempty"`

	// Runtime options (not serialized)
	Dataset *dataset.Dataset `json:"-"` // already loaded dataset; Source is then only a label
	Logger  *log.Logger      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded, normalized dataset.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Warnings are the dataset validation findings.
	Warnings []dataset.Warning

	// Layout is the computed timeline.
	Layout timeline.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount int // persons in the dataset
	PlacedCount int // persons that passed the filter
	RowCount    int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the parsed dataset came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, txt, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGrouping checks that a grouping mode is valid.
func ValidateGrouping(grouping string) error {
	_, err := timeline.ParseGroupingMode(grouping)
	return err
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that there is something to load.
func (o *Options) ValidateForLoad() error {
	if o.Dataset == nil && o.Source == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "dataset source is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Grouping == "" {
		o.Grouping = DefaultGrouping
	}
	if o.Start == nil {
		start := DefaultStart
		o.Start = &start
	}
	if o.End == nil {
		end := DefaultEnd
		o.End = &end
	}
	if o.PixelsPerYear <= 0 {
		o.PixelsPerYear = timeline.DefaultPixelsPerYear
	}
	if o.LeftPadding == nil {
		lp := timeline.DefaultLeftPadding
		o.LeftPadding = &lp
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = timeline.DefaultViewportHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateGrouping(o.Grouping); err != nil {
		return err
	}
	if err := apperr.ValidateTimeRange(*o.Start, *o.End); err != nil {
		return err
	}
	switch ppy := o.PixelsPerYear; {
	case !finite(ppy):
		return apperr.New(apperr.ErrCodeInvalidInput, "pixels per year must be a finite number")
	case ppy > MaxPixelsPerYear:
		return apperr.New(apperr.ErrCodeInvalidInput, "pixels per year must be at most %g", MaxPixelsPerYear)
	}
	if lp := *o.LeftPadding; !finite(lp) || lp < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "left padding must be a finite, non-negative number")
	}
	if vh := o.ViewportHeight; !finite(vh) || vh < MinViewportHeight {
		return apperr.New(apperr.ErrCodeInvalidInput, "viewport height must be at least %g", MinViewportHeight)
	}
	for _, c := range o.Categories {
		if err := apperr.ValidateName("category", c); err != nil {
			return err
		}
	}
	for _, c := range o.Countries {
		if err := apperr.ValidateName("country", c); err != nil {
			return err
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.TextWidth <= 0 {
		o.TextWidth = DefaultTextWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	_, err := render.ParseTheme(o.Theme)
	return err
}

// GroupingMode returns the parsed grouping. It must only be called after
// ValidateForLayout succeeded.
func (o *Options) GroupingMode() timeline.GroupingMode {
	m, _ := timeline.ParseGroupingMode(o.Grouping)
	return m
}

// Filter returns the engine filter described by the options.
func (o *Options) Filter() timeline.Filter {
	return timeline.Filter{
		Categories:         o.Categories,
		Countries:          o.Countries,
		TimeRange:          timeline.TimeRange{Start: *o.Start, End: *o.End},
		ShowAchievements:   o.ShowAchievements,
		HideEmptyCenturies: o.HideEmptyCenturies,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Grouping:           o.Grouping,
		Order:              o.Order,
		Categories:         o.Categories,
		Countries:          o.Countries,
		Start:              *o.Start,
		End:                *o.End,
		HideEmptyCenturies: o.HideEmptyCenturies,
		ShowAchievements:   o.ShowAchievements,
		PixelsPerYear:      o.PixelsPerYear,
		LeftPadding:        *o.LeftPadding,
		ViewportHeight:     o.ViewportHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatText:
		k.Width = o.TextWidth
	case FormatSVG, FormatPNG, FormatPDF:
		k.Theme = o.Theme
		k.Title = o.Title
		k.NoGrid = o.NoGrid
	}
	return k
}
