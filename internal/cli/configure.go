package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/internal/config"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force, defaults bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Write a configuration file.

When stdin is a terminal a short form asks for the preferred grouping, time
window, theme and cache backend. Otherwise, or with --defaults, the built-in
defaults are written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.ConfigPath); err == nil && !force {
				return apperr.New(apperr.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", c.ConfigPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := config.Defaults()
			if !defaults && stdinIsTerminal() {
				answers := newConfigAnswers(cfg)
				if err := configForm(&cfg, &answers).Run(); err != nil {
					return err
				}
				if err := answers.apply(&cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(c.ConfigPath); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			printSuccess("Configuration written")
			printFile(c.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "write the defaults without asking")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.Config.Encode()
			if err != nil {
				return err
			}

			printKeyValue("config", c.ConfigPath)
			printKeyValue("store", c.Config.SQLitePath())
			printKeyValue("cache", c.Config.CacheBackend()+" "+StyleDim.Render(c.Config.CacheDir()))
			if uri := c.Config.MongoURI(); uri != "" {
				printKeyValue("mongo", uri+" "+StyleDim.Render(c.Config.MongoDatabase()))
			}
			printNewline()
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out, c.ConfigPath)
			return nil
		},
	}
}

// configAnswers holds the form fields kept as text until the form is
// submitted.
type configAnswers struct {
	start     string
	end       string
	redisAddr string
}

func newConfigAnswers(cfg config.FileConfig) configAnswers {
	return configAnswers{
		start:     strconv.Itoa(*cfg.Filter.Start),
		end:       strconv.Itoa(*cfg.Filter.End),
		redisAddr: cfg.RedisAddr(),
	}
}

// apply copies the answers into cfg.
func (a configAnswers) apply(cfg *config.FileConfig) error {
	start, err := strconv.Atoi(a.start)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "first year")
	}
	end, err := strconv.Atoi(a.end)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "last year")
	}
	cfg.Filter.Start, cfg.Filter.End = &start, &end
	if cfg.CacheBackend() == config.CacheRedis {
		addr := a.redisAddr
		cfg.Cache.RedisAddr = &addr
	}
	return nil
}

// configForm asks for the settings people change most. Select and confirm
// fields write straight into cfg; the rest go to a.
func configForm(cfg *config.FileConfig, a *configAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Group rows by").
				Options(
					huh.NewOption("Category", "category"),
					huh.NewOption("Country", "country"),
					huh.NewOption("Nothing", "none"),
				).
				Value(cfg.Layout.Grouping),
			huh.NewInput().
				Title("First year (negative for BC)").
				Value(&a.start).
				Validate(validateYearInput),
			huh.NewInput().
				Title("Last year").
				Value(&a.end).
				Validate(validateYearInput),
			huh.NewConfirm().
				Title("Compress empty centuries?").
				Value(cfg.Filter.HideEmptyCenturies),
			huh.NewConfirm().
				Title("Show achievement markers?").
				Value(cfg.Filter.ShowAchievements),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("SVG theme").
				Options(huh.NewOption("Light", "light"), huh.NewOption("Dark", "dark")).
				Value(cfg.Render.Theme),
			huh.NewSelect[string]().
				Title("Cache").
				Options(
					huh.NewOption("Files in "+cfg.CacheDir(), config.CacheFile),
					huh.NewOption("Redis", config.CacheRedis),
					huh.NewOption("No cache", config.CacheNone),
				).
				Value(cfg.Cache.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis address").
				Value(&a.redisAddr),
		).WithHideFunc(func() bool { return *cfg.Cache.Backend != config.CacheRedis }),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

func validateYearInput(s string) error {
	y, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a year: %q", s)
	}
	return apperr.ValidateYear(y)
}

// stdinIsTerminal reports whether stdin is attached to a terminal.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
