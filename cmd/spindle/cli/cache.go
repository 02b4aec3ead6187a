package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/spindle/cmd/spindle/cli/config"
	"github.com/meigma/spindle/internal/cache"
)

// Cache command flags.
var (
	cacheLong    bool
	clearConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the content cache",
	Long: `Manage the local content cache.

The cache stores pulled wasm modules and static assets keyed by digest, plus
the manifest and config documents for each pulled reference. Layers already
in the cache are never re-fetched.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache statistics",
	Long: `Display information about the content cache.

Shows the total size and entry count, and optionally each cached blob.

Examples:
  spindle cache info
  spindle cache info --long
  spindle cache info --cache-dir /path/to/cache`,
	Args: cobra.NoArgs,
	RunE: runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached content",
	Long: `Remove all blobs and materialized registry metadata from the cache.

This permanently deletes all cached content. Use --yes to skip confirmation.

Examples:
  spindle cache clear
  spindle cache clear --yes`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheInfoCmd.Flags().BoolVarP(&cacheLong, "long", "l", false, "Show each cached blob")
	cacheClearCmd.Flags().BoolVarP(&clearConfirm, "yes", "y", false, "Skip confirmation prompt")

	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCache opens the content cache at the configured location.
func openCache() (*cache.Cache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dir := resolveCacheDir(cfg)
	if dir == "" {
		dir, err = config.CacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.New(dir, nil)
}

func runCacheInfo(_ *cobra.Command, _ []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	if stats.EntryCount == 0 {
		fmt.Println("Cache is empty")
		return nil
	}

	fmt.Printf("Cache: %s\n", stats.Path)
	fmt.Printf("Size:  %s (%d bytes)\n", humanize.Bytes(safeUint64(stats.TotalSize)), stats.TotalSize)
	fmt.Printf("Entries: %d\n", stats.EntryCount)

	if cacheLong && len(stats.Entries) > 0 {
		fmt.Println()
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DIGEST\tKIND\tSIZE\tCACHED")
		for _, e := range stats.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				truncateDigest(e.Digest.String()),
				e.Kind,
				humanize.Bytes(safeUint64(e.Size)),
				humanize.Time(e.ModTime))
		}
		tw.Flush()
	}

	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	if stats.EntryCount == 0 {
		fmt.Println("Cache is already empty")
		return nil
	}

	if !clearConfirm {
		fmt.Printf("This will delete %d entries (%s). Continue? [y/N] ",
			stats.EntryCount, humanize.Bytes(safeUint64(stats.TotalSize)))
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Printf("Removed %d entries (%s)\n", stats.EntryCount, humanize.Bytes(safeUint64(stats.TotalSize)))
	return nil
}

func safeUint64(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// truncateDigest shortens "sha256:<64 hex>" for display.
func truncateDigest(d string) string {
	if len(d) > 19 {
		return d[:19]
	}
	return d
}
