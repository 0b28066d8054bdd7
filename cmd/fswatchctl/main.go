// Command fswatchctl is a small CLI wrapper around globwatch, structured
// like cmd/bd's turso command group: a root command plus watch/find/
// daemon-status subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fswatchctl",
	Short: "Glob-filtered file watching from the command line",
}

func main() {
	rootCmd.AddCommand(watchCmd, findCmd, daemonStatusCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
