// Command chordring is a demo front-end for the ring core: it builds
// a ring in-process, drives it through a scripted walkthrough or an
// interactive REPL, and prints the results with internal/observability.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "chordring",
		Short: "Single-process ring routing demo",
		Long:  "chordring builds an identifier ring in one process and drives it through join, insert, find, leave and pretty-print operations.",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to an 8-bit ring, logging off)")

	cmd.AddCommand(demoCmd(&configPath))
	cmd.AddCommand(replCmd(&configPath))
	return cmd
}
