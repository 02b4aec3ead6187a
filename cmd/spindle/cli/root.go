// Package cli implements the spindle command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meigma/spindle"
	"github.com/meigma/spindle/cmd/spindle/cli/config"
)

// Build information set via ldflags.
var version = "dev"

// Global flags.
var (
	insecure bool
	verbose  bool
	cacheDir string
)

var rootCmd = &cobra.Command{
	Use:   "spindle",
	Short: "Distribute wasm application bundles through OCI registries",
	Long: `Spindle packages wasm applications as OCI artifacts and synchronizes them
with container registries.

Pushing locks an application definition into a digest-resolved bundle and
uploads its config and content layers. Pulling materializes the manifest and
config locally and fetches only the layers missing from the content cache.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Allow insecure registry connections")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug logging")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Content cache directory (default: XDG cache dir)")
	rootCmd.Version = version
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	return err
}

// newClient creates a spindle client from config file values and flags.
// Flags win over the config file.
func newClient() (*spindle.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	opts := []spindle.ClientOption{
		spindle.WithInsecure(insecure || cfg.Registry.Insecure),
	}
	if dir := resolveCacheDir(cfg); dir != "" {
		opts = append(opts, spindle.WithCacheDir(dir))
	}
	if cfg.Registry.UserAgent != "" {
		opts = append(opts, spindle.WithUserAgent(cfg.Registry.UserAgent))
	}
	if verbose {
		opts = append(opts, spindle.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
		))
	}
	return spindle.NewClient(opts...)
}

// resolveCacheDir picks the cache directory: flag, then config file,
// then the library default (empty string).
func resolveCacheDir(cfg config.Config) string {
	if cacheDir != "" {
		return cacheDir
	}
	return cfg.Cache.Dir
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// formatError converts spindle errors to user-friendly messages.
func formatError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, spindle.ErrInvalidRef):
		return fmt.Sprintf("Error: invalid reference: %v", err)
	case errors.Is(err, spindle.ErrUnauthorized):
		return "Error: authentication failed (check your credentials)"
	case errors.Is(err, spindle.ErrNotFound):
		return fmt.Sprintf("Error: not found: %v", err)
	case errors.Is(err, spindle.ErrMissingSource):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, context.Canceled):
		return "Error: operation canceled"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
