package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/dataset/mongo"
	"github.com/matzehuels/chronoline/pkg/dataset/store"
)

// importCommand creates the import command that copies a dataset file into
// the local store or a MongoDB database.
func (c *CLI) importCommand() *cobra.Command {
	var sf sourceFlags

	cmd := &cobra.Command{
		Use:   "import [dataset]",
		Short: "Import a dataset file into the local store or MongoDB",
		Long: `Import a dataset file into the local store or MongoDB.

The import replaces whatever the target held before, including the category
and country order. Persons without an ID receive a stable one derived from
their name and birth year, so re-importing the same file keeps the IDs.

Other commands read the store when they are not given a dataset file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], sf)
		},
	}

	sf.register(cmd)
	return cmd
}

func (c *CLI) runImport(ctx context.Context, path string, sf sourceFlags) error {
	prog := newProgress(loggerFromContext(ctx))

	d, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	warnings := dataset.Validate(d)

	var (
		n      int
		target string
	)
	if uri := firstNonEmpty(sf.mongoURI, c.Config.MongoURI()); uri != "" {
		src, err := mongo.Connect(ctx, uri, firstNonEmpty(sf.mongoDB, c.Config.MongoDatabase()))
		if err != nil {
			return err
		}
		defer src.Close(context.Background())

		if n, err = src.Replace(ctx, d); err != nil {
			return fmt.Errorf("import into %s: %w", src, err)
		}
		target = src.String()
	} else {
		target = firstNonEmpty(sf.db, c.Config.SQLitePath())
		st, err := store.Open(target)
		if err != nil {
			return fmt.Errorf("open store %s: %w", target, err)
		}
		defer st.Close()

		if n, err = st.ImportDataset(ctx, d, path); err != nil {
			return fmt.Errorf("import into %s: %w", target, err)
		}
	}

	prog.done("stored persons", "count", n, "target", target)

	printSuccess("Imported %d persons", n)
	printDetail("%d categories · %d countries", len(d.Categories), len(d.Countries))
	printFile(target)
	printWarnings(warnings, maxWarnings)
	printNewline()
	printNextStep("Browse", appName+" list")

	return nil
}
