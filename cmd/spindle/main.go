// Command spindle distributes wasm application bundles through OCI registries.
package main

import (
	"os"

	"github.com/meigma/spindle/cmd/spindle/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
