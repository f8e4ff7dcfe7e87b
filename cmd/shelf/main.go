// Command shelf manages a single-user product catalog stored in SQLite.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/shelf/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
