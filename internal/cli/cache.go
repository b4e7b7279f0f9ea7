package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/pkg/cache"
)

// cacheCommand groups maintenance of the on-disk pipeline cache. A Redis
// backend expires its own entries and is left alone.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout and render cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached datasets, layouts and renders",
			Args:  cobra.NoArgs,
			RunE:  c.withFileCache(clearCache),
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired cache entries",
			Args:  cobra.NoArgs,
			RunE:  c.withFileCache(pruneCache),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory path",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				fmt.Fprintln(out, c.Config.CacheDir())
			},
		},
	)
	return cmd
}

func (c *CLI) withFileCache(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		fc, err := cache.NewFileCache(c.Config.CacheDir())
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		return fn(fc)
	}
}

func clearCache(fc *cache.FileCache) error {
	n, err := fc.Clear()
	switch {
	case err != nil:
		return err
	case n == 0:
		printInfo("Cache is empty")
	default:
		printSuccess("Cleared %d cached entries", n)
		printDetail("Directory: %s", fc.Dir())
	}
	return nil
}

func pruneCache(fc *cache.FileCache) error {
	n, err := fc.Prune()
	if err != nil {
		return err
	}
	printSuccess("Pruned %d expired entries", n)
	return nil
}
