package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <app-file> <reference>",
	Short: "Push an application bundle to an OCI registry",
	Long: `Push locks an application definition and uploads it to an OCI registry.

The app-file is a JSON or YAML application definition whose component sources
and file mounts reference the local filesystem.

Examples:
  spindle push ./app.yaml ghcr.io/org/app:v1
  spindle push ./app.json localhost:5000/app:dev --insecure`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(_ *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := loadApplication(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	location, err := client.Push(ctx, app, args[1])
	if err != nil {
		return err
	}

	fmt.Println(location)
	return nil
}
