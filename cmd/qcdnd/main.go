// qcdnd is the QCDN writer node: it accepts uploads, tag moves and
// deletes over gRPC and feeds connected followers the replication
// stream.
package main

import (
	"fmt"
	"os"

	"github.com/qcdn/qcdn/cmd/qcdnd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
