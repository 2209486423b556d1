package main

import (
	"os"

	"github.com/roach88/wadcompat/internal/cli"
)

// Version information - set at build time.
var Version = "dev"

func main() {
	rootCmd := cli.NewRootCommand()
	rootCmd.Version = Version

	// Subcommands report their own errors; cobra prints the rest.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
