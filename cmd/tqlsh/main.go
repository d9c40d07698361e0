// Package main provides the tqlsh binary entry point.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tqlsh/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
