package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	globwatch "github.com/snomiao/glob-watch"
)

var findCmd = &cobra.Command{
	Use:   "find <pattern> [pattern...]",
	Short: "Print every path matching the given glob patterns",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := resolveOptions(cmd, args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		paths, err := globwatch.FindFiles(args, opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		sort.Strings(paths)
		for _, p := range paths {
			fmt.Println(p)
		}
	},
}
