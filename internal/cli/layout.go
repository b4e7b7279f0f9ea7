package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// layoutCommand creates the layout command for computing timeline layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      layoutFlags
		sf      sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Compute the timeline layout of a dataset",
		Long: `Compute the timeline layout of a dataset.

The layout command reads a dataset (JSON, YAML or CSV), filters and groups the
persons, packs them into rows and writes the result as a layout.json file.
The file holds every row, century boundary, compressed gap and label, and can
be rendered later with 'render --layout'.

Without a dataset argument the persons are read from MongoDB (--mongo) or the
local store filled by 'import'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Refresh: refresh}
			lf.apply(cmd, c.Config, &opts)
			if err := c.resolveSource(cmd.Context(), args, sf, &opts); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	lf.register(cmd)
	sf.register(cmd)

	return cmd
}

// runLayout loads the dataset, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	d, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Source, err)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %d persons...", len(d.Persons)))
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := pipeline.MarshalLayout(layout)
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(opts.Source)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(d.Persons), layout.PersonCount(), len(layout.Rows), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render --layout "+outputPath)

	return nil
}

// layoutPath derives the default layout file name from the dataset source.
// Sources that are not files (the store, MongoDB) write into the working
// directory.
func layoutPath(source string) string {
	if !isFile(source) {
		return defaultBase + ".layout.json"
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".layout.json"
}
