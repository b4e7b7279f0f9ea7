package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// maxWarnings caps the dataset warnings printed after a render.
const maxWarnings = 5

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output     string // output file (single format), base path (several) or "-"
	formats    string // comma-separated output formats
	layoutFile string // render a precomputed layout.json instead of a dataset
	theme      string
	title      string
	noGrid     bool
	textWidth  int
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command for generating timeline images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rf renderFlags
		lf layoutFlags
		sf sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a dataset as a timeline (SVG, PNG, PDF, JSON or text)",
		Long: `Render a dataset as a timeline.

The render command runs the full pipeline: load the dataset, compute the
layout and write the requested formats. With --layout it skips the first two
steps and renders a layout.json produced by 'layout'.

Formats: svg (default), png, pdf, json, txt. PNG and PDF need rsvg-convert
on the PATH. Use -o - to write a single format to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Refresh: rf.refresh,
				Formats: pipeline.ParseFormats(rf.formats),
				Title:   rf.title,
				NoGrid:  rf.noGrid,
			}
			if cmd.Flags().Changed("theme") {
				opts.Theme = rf.theme
			}
			if cmd.Flags().Changed("width") {
				opts.TextWidth = rf.textWidth
			}
			lf.apply(cmd, c.Config, &opts)
			if opts.TextWidth == 0 && rf.output == "-" {
				opts.TextWidth = terminalWidth()
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			if rf.output == "-" && len(opts.Formats) > 1 {
				return apperr.New(apperr.ErrCodeInvalidInput, "only one format can be written to stdout")
			}

			if rf.layoutFile != "" {
				return c.runRenderLayout(cmd.Context(), opts, rf)
			}
			if err := c.resolveSource(cmd.Context(), args, sf, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, rf)
		},
	}

	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, txt (comma-separated)")
	cmd.Flags().StringVar(&rf.layoutFile, "layout", "", "render a layout.json instead of a dataset")
	cmd.Flags().StringVar(&rf.theme, "theme", pipeline.DefaultTheme, "color theme: light, dark")
	cmd.Flags().StringVar(&rf.title, "title", "", "title drawn above the timeline")
	cmd.Flags().BoolVar(&rf.noGrid, "no-grid", false, "omit the century grid lines")
	cmd.Flags().IntVar(&rf.textWidth, "width", pipeline.DefaultTextWidth, "columns of the text rendering")
	cmd.Flags().BoolVar(&rf.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&rf.refresh, "refresh", false, "recompute even when cached")
	lf.register(cmd)
	sf.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON, pipeline.FormatText))
	_ = cmd.RegisterFlagCompletionFunc("theme", fixedCompletion("light", "dark"))

	return cmd
}

// runRender executes the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, rf renderFlags) error {
	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	restore := redirectStatus(rf.output)
	defer restore()

	spinner := newSpinner(ctx, "Rendering timeline...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := emitArtifacts(result.Artifacts, opts.Formats, opts.Source, rf.output, result.CacheInfo.RenderHit); err != nil {
		return err
	}
	printStats(result.Stats.PersonCount, result.Stats.PlacedCount, result.Stats.RowCount, result.CacheInfo.LayoutHit)
	printWarnings(result.Warnings, maxWarnings)
	return nil
}

// runRenderLayout renders a layout file produced by the layout command.
func (c *CLI) runRenderLayout(ctx context.Context, opts pipeline.Options, rf renderFlags) error {
	data, err := os.ReadFile(rf.layoutFile)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", rf.layoutFile, err)
	}
	layout, err := pipeline.UnmarshalLayout(data)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse layout %s", rf.layoutFile)
	}

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	restore := redirectStatus(rf.output)
	defer restore()

	spinner := newSpinner(ctx, "Rendering layout...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := emitArtifacts(artifacts, opts.Formats, rf.layoutFile, rf.output, cacheHit); err != nil {
		return err
	}
	printStats(layout.PersonCount(), layout.PersonCount(), len(layout.Rows), cacheHit)
	return nil
}

// emitArtifacts writes artifacts to stdout or to files and reports where they went.
func emitArtifacts(artifacts map[string][]byte, formats []string, input, output string, cacheHit bool) error {
	if output == "-" {
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	if cacheHit {
		printSuccess("Render complete (cached)")
	} else {
		printSuccess("Render complete")
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// redirectStatus sends status output to stderr while an artifact is written
// to stdout. The returned function restores the previous writer.
func redirectStatus(output string) func() {
	prev := out
	if output == "-" {
		out = os.Stderr
	}
	return func() { out = prev }
}

// terminalWidth returns the width of the terminal on stdout, or the default
// text width when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return pipeline.DefaultTextWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return pipeline.DefaultTextWidth
	}
	return w
}
