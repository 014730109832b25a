// Command pipearchivectl creates, inspects, and appends to pipeline
// archive files.
package main

import (
	"fmt"
	"os"

	"github.com/marmos91/pipearchive/cmd/pipearchivectl/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
