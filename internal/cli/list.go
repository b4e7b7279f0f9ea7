package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/dataset/store"
	"github.com/matzehuels/chronoline/pkg/pipeline"
	"github.com/matzehuels/chronoline/pkg/render"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// List styles
var (
	listNameStyle = lipgloss.NewStyle().Foreground(strong)
	listDimStyle  = lipgloss.NewStyle().Foreground(faint)
)

// listCommand creates the list command that prints persons as a table.
func (c *CLI) listCommand() *cobra.Command {
	var (
		q  store.Query
		sf sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "list [dataset]",
		Short: "List the persons of a dataset or the local store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			persons, source, err := c.listPersons(cmd.Context(), args, sf, q)
			if err != nil {
				return err
			}
			if len(persons) == 0 {
				printInfo("No persons match in %s", source)
				return nil
			}
			fmt.Fprintln(out, personTable(persons))
			fmt.Fprintln(out, "  "+StyleNumber.Render(fmt.Sprint(len(persons)))+StyleDim.Render(" persons from "+source))
			return nil
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", "", "only list this category")
	cmd.Flags().StringVar(&q.Country, "country", "", "only list persons from this country")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 0, "list at most n persons")
	sf.register(cmd)

	return cmd
}

// listPersons queries the store directly when no other source is named, so
// that filtering and the limit run in SQL.
func (c *CLI) listPersons(ctx context.Context, args []string, sf sourceFlags, q store.Query) ([]timeline.Person, string, error) {
	if len(args) == 0 && firstNonEmpty(sf.mongoURI, c.Config.MongoURI()) == "" {
		path := firstNonEmpty(sf.db, c.Config.SQLitePath())
		st, err := store.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open store %s: %w", path, err)
		}
		defer st.Close()

		persons, err := st.Persons(ctx, q)
		return persons, path, err
	}

	var opts pipeline.Options
	if err := c.resolveSource(ctx, args, sf, &opts); err != nil {
		return nil, "", err
	}
	d := opts.Dataset
	if d == nil {
		var err error
		if d, err = dataset.Load(opts.Source); err != nil {
			return nil, "", fmt.Errorf("load %s: %w", opts.Source, err)
		}
	}
	return q.Filter(d.Persons), opts.Source, nil
}

// personTable renders persons as a bordered table.
func personTable(persons []timeline.Person) string {
	rows := make([][]string, 0, len(persons))
	for _, p := range persons {
		reign := "—"
		if p.HasReign() {
			reign = render.FormatYear(*p.ReignStart) + " – " + render.FormatYear(*p.ReignEnd)
		}
		rows = append(rows, []string{p.Name, render.Lifespan(p), p.Category, p.Country, reign})
	}

	headerStyle := lipgloss.NewStyle().Foreground(muted).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		Headers("Name", "Life", "Category", "Country", "Reign").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return listNameStyle.Padding(0, 1)
			default:
				return listDimStyle.Padding(0, 1)
			}
		}).
		Render()
}
