package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// previewCommand creates the preview command that shows a timeline in the
// terminal.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		lf      layoutFlags
		sf      sourceFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview [dataset]",
		Short: "Preview a timeline interactively in the terminal",
		Long: `Preview a timeline interactively in the terminal.

The preview draws the timeline as text at the width of the terminal. Keys:

  g   cycle grouping (category, country, none)
  h   toggle compression of empty centuries
  a   toggle achievement markers
  q   quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			lf.apply(cmd, c.Config, &opts)
			if err := c.resolveSource(cmd.Context(), args, sf, &opts); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd)
	sf.register(cmd)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, noCache bool) error {
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
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	p := tea.NewProgram(NewPreviewModel(d, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
