package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphtext/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the artifact cache",
		Long: `Rendered artifacts are cached by graph and drawing options.

Only the file backend can be inspected or cleared from here; a Redis cache
is shared with other processes and expires on its own.`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// fileCache opens the configured file cache, or returns nil after printing
// a warning when another backend is configured.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	cfg := c.settings()
	if cfg.Cache.Backend != "file" {
		printWarning("Cache backend is %s; only the file cache is managed here", cfg.Cache.Backend)
		return nil, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil || fc == nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("directory", fc.Dir())
			printKeyValue("entries", fmt.Sprint(st.Entries))
			printKeyValue("size", humanBytes(st.Bytes))
			printKeyValue("ttl", c.settings().Cache.TTL.Duration.String())
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil || fc == nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return err
			}
			if st.Entries == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Removed %s", plural(st.Entries, "artifact"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(c.settings())
			if err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
