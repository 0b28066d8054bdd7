package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	globwatch "github.com/snomiao/glob-watch"
	"github.com/snomiao/glob-watch/internal/config"
	"github.com/snomiao/glob-watch/internal/ui"
)

var (
	flagIgnore    []string
	flagMode      string
	flagDot       bool
	flagOnlyFiles bool
	flagLogFile   string
)

func init() {
	for _, c := range []*cobra.Command{watchCmd, findCmd} {
		c.Flags().StringSliceVar(&flagIgnore, "ignore", nil, "glob patterns to exclude")
		c.Flags().StringVar(&flagMode, "mode", "", "backend: external, native, or oneshot (find always uses oneshot)")
		c.Flags().BoolVar(&flagDot, "dot", false, "include dotfiles and dot-prefixed directories")
		c.Flags().BoolVar(&flagOnlyFiles, "only-files", true, "match only regular files")
	}
	watchCmd.Flags().StringVar(&flagLogFile, "log-file", "", "rotate logs to this file instead of stderr")
}

var watchCmd = &cobra.Command{
	Use:   "watch <pattern> [pattern...]",
	Short: "Watch glob patterns and print changes as they happen",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := resolveOptions(cmd, args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts.Logger = config.NewLogger(flagLogFile)

		destroy, err := globwatch.Watch(args, printChanges, opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer destroy()

		fmt.Println(ui.RenderAccent("watching %v (mode=%s)", args, opts.Mode))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	},
}

func printChanges(c globwatch.FileChanges) {
	for path := range c.Added {
		fmt.Println(ui.RenderAccent("+ %s", path))
	}
	for path := range c.Changed {
		fmt.Println(ui.RenderWarn("~ %s", path))
	}
	for path := range c.Deleted {
		fmt.Println(ui.RenderFail("- %s", path))
	}
}

func resolveOptions(cmd *cobra.Command, patterns []string) (globwatch.WatchOptions, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return globwatch.WatchOptions{}, err
	}
	fileOpts, err := config.Load(cwd)
	if err != nil {
		return globwatch.WatchOptions{}, err
	}

	mode := globwatch.Mode(fileOpts.Mode)
	if flagMode != "" {
		mode = globwatch.Mode(flagMode)
	}
	if mode == "" {
		mode = globwatch.ModeExternal
	}

	ignore := fileOpts.Ignore
	if len(flagIgnore) > 0 {
		ignore = flagIgnore
	}

	onlyFiles := fileOpts.OnlyFiles
	if cmd.Flags().Changed("only-files") {
		onlyFiles = flagOnlyFiles
	}

	return globwatch.WatchOptions{
		Mode:      mode,
		Cwd:       cwd,
		Ignore:    ignore,
		Dot:       flagDot || fileOpts.Dot,
		OnlyFiles: onlyFiles,
	}, nil
}
