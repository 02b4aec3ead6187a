package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull <reference>",
	Short: "Pull an application bundle into the local cache",
	Long: `Pull fetches an application bundle from an OCI registry.

The manifest and config documents are materialized in the cache under the
reference; content layers already present in the cache are not re-fetched.

Examples:
  spindle pull ghcr.io/org/app:v1
  spindle pull localhost:5000/app:dev --insecure`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(_ *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Pull(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Pulled %s\n", args[0])
	return nil
}
