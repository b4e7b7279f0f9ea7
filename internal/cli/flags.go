package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/internal/config"
	"github.com/matzehuels/chronoline/pkg/dataset/mongo"
	"github.com/matzehuels/chronoline/pkg/dataset/store"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// =============================================================================
// Layout & Filter Flags
// =============================================================================

// layoutFlags binds the layout and filter flags shared by layout, render,
// preview and serve.
type layoutFlags struct {
	grouping       string
	order          []string
	categories     []string
	countries      []string
	start          int
	end            int
	hideEmpty      bool
	achievements   bool
	pixelsPerYear  float64
	leftPadding    float64
	viewportHeight float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.grouping, "group", "g", pipeline.DefaultGrouping, "row grouping: category, country, none")
	fs.StringSliceVar(&f.order, "order", nil, "group order (overrides the dataset's order)")
	fs.StringSliceVarP(&f.categories, "category", "c", nil, "only show these categories")
	fs.StringSliceVar(&f.countries, "country", nil, "only show persons from these countries")
	fs.IntVar(&f.start, "start", pipeline.DefaultStart, "first year of the window")
	fs.IntVar(&f.end, "end", pipeline.DefaultEnd, "last year of the window")
	fs.BoolVar(&f.hideEmpty, "hide-empty", false, "compress centuries nobody lived in")
	fs.BoolVar(&f.achievements, "achievements", false, "show achievement markers")
	fs.Float64Var(&f.pixelsPerYear, "ppy", 0, "pixels per year (default 3)")
	fs.Float64Var(&f.leftPadding, "left-padding", 0, "left padding in pixels (default 50)")
	fs.Float64Var(&f.viewportHeight, "viewport-height", 0, "viewport height in pixels (default 800)")
	_ = cmd.RegisterFlagCompletionFunc("group", fixedCompletion("category", "country", "none"))
}

// apply copies the flags the user set into opts. Flags left at their
// defaults give way to the configuration file, which in turn gives way to
// the pipeline defaults.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg config.FileConfig, opts *pipeline.Options) {
	cfg.Apply(opts)

	changed := cmd.Flags().Changed
	if changed("group") {
		opts.Grouping = f.grouping
	}
	if changed("order") {
		opts.Order = f.order
	}
	if changed("category") {
		opts.Categories = f.categories
	}
	if changed("country") {
		opts.Countries = f.countries
	}
	if changed("start") {
		start := f.start
		opts.Start = &start
	}
	if changed("end") {
		end := f.end
		opts.End = &end
	}
	if changed("hide-empty") {
		opts.HideEmptyCenturies = f.hideEmpty
	}
	if changed("achievements") {
		opts.ShowAchievements = f.achievements
	}
	if changed("ppy") {
		opts.PixelsPerYear = f.pixelsPerYear
	}
	if changed("left-padding") {
		lp := f.leftPadding
		opts.LeftPadding = &lp
	}
	if changed("viewport-height") {
		opts.ViewportHeight = f.viewportHeight
	}
}

// =============================================================================
// Dataset Source Flags
// =============================================================================

// sourceFlags selects where a dataset comes from when no file is given.
type sourceFlags struct {
	db       string
	mongoURI string
	mongoDB  string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.db, "db", "", "SQLite store to read (default from config)")
	fs.StringVar(&f.mongoURI, "mongo", "", "MongoDB URI to read persons from")
	fs.StringVar(&f.mongoDB, "mongo-db", "", "MongoDB database (default from config)")
}

// resolveSource fills opts.Source or opts.Dataset. A file argument wins,
// then MongoDB when a URI is configured, then the local store.
func (c *CLI) resolveSource(ctx context.Context, args []string, f sourceFlags, opts *pipeline.Options) error {
	if len(args) > 0 {
		opts.Source = args[0]
		return nil
	}

	if uri := firstNonEmpty(f.mongoURI, c.Config.MongoURI()); uri != "" {
		src, err := mongo.Connect(ctx, uri, firstNonEmpty(f.mongoDB, c.Config.MongoDatabase()))
		if err != nil {
			return err
		}
		defer src.Close(context.Background())

		d, err := src.Dataset(ctx)
		if err != nil {
			return err
		}
		opts.Dataset = d
		opts.Source = src.String()
		return nil
	}

	path := firstNonEmpty(f.db, c.Config.SQLitePath())
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open store %s: %w", path, err)
	}
	defer st.Close()

	n, err := st.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.New(apperr.ErrCodeInvalidInput,
			"no dataset given and the store at %s is empty (run '%s import <file>' first)", path, appName)
	}
	d, err := st.Dataset(ctx)
	if err != nil {
		return err
	}
	opts.Dataset = d
	opts.Source = path
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
