// Command cuggino is the CLI entry point for the coder-loop engine: a
// thin cobra wrapper over internal/loop, internal/watch, and
// internal/storage, laid out as one file per subcommand registered onto a
// shared root command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cuggino",
	Short:         "Drive a local codebase through an autonomous plan/implement/review loop",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cuggino: %v\n", err)
		os.Exit(1)
	}
}
