// qcdnweb is the QCDN read-only HTTP content server: it resolves
// /f/{dir}/{file}/{version} paths against the metadata database and
// streams the bytes from blob storage.
package main

import (
	"fmt"
	"os"

	"github.com/qcdn/qcdn/cmd/qcdnweb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
