// Package main is the entry point for the anvil CLI.
package main

import (
	"fmt"
	"os"

	"github.com/anvilbuild/anvil/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cmd.Exit(err)
	}
}
