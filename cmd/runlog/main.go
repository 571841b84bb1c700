package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/runlog/internal/app"
	"github.com/five82/runlog/internal/config"
	"github.com/five82/runlog/internal/remote"
	"github.com/five82/runlog/internal/sgr"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "runlog: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "runlog",
		Short:         "Parse and browse CI job logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newParseCmd(&flags), newViewCmd(&flags))
	return root
}

func newParseCmd(root *rootFlags) *cobra.Command {
	var (
		pretty       bool
		search       string
		count        bool
		color        string
		tail         int
		styleScope   string
		noTimestamps bool
	)
	cmd := &cobra.Command{
		Use:   "parse [file|url]",
		Short: "Print a log as a JSON document",
		Long: "Parse a CI log (plain, gzip, zstd or lz4) and print the document as JSON.\n" +
			"Reads standard input when no file is given or the file is \"-\".\n" +
			"An http(s) URL is downloaded, with a bearer token from $" + remote.TokenEnv + " when set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("pretty") {
				cfg.Pretty = pretty
			}
			if flags.Changed("color") {
				if cfg.Color, err = config.ParseColor(color); err != nil {
					return err
				}
			}
			if flags.Changed("tail") {
				cfg.TailLines = tail
			}
			if flags.Changed("style-scope") {
				if cfg.StyleScope, err = sgr.ParseScope(styleScope); err != nil {
					return err
				}
			}
			if noTimestamps {
				cfg.Timestamps = false
			}

			opts := app.ParseOptions{
				TailLines: cfg.TailLines,
				Engine:    cfg.EngineOptions(),
				Search:    search,
				Count:     count,
				Pretty:    cfg.Pretty,
				Color:     useColor(cfg.Color, os.Stdout),
			}
			if len(args) == 1 {
				opts.Path = args[0]
			} else {
				opts.Input = cmd.InOrStdin()
			}
			return app.Parse(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&pretty, "pretty", "p", false, "indent the JSON output")
	f.StringVarP(&search, "search", "s", "", "highlight case-insensitive matches of a term")
	f.BoolVarP(&count, "count", "c", false, "print only the number of matches")
	f.StringVar(&color, "color", config.ColorAuto, "colorize JSON: auto, always or never")
	f.IntVarP(&tail, "tail", "n", 0, "keep only the last N lines (0 keeps all)")
	f.StringVar(&styleScope, "style-scope", "line", "escape-code style scope: line or document")
	f.BoolVar(&noTimestamps, "no-timestamps", false, "keep leading timestamps as text")
	return cmd
}

func newViewCmd(root *rootFlags) *cobra.Command {
	var opts app.Options
	cmd := &cobra.Command{
		Use:   "view <file|url>",
		Short: "Browse a log interactively",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("view needs a terminal; use \"runlog parse\" for piped output")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = root.configPath
			opts.Path = args[0]
			return app.Run(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.Follow, "follow", "f", false, "re-read the file or URL as it grows")
	f.StringVarP(&opts.Search, "search", "s", "", "start with a search term")
	f.StringVar(&opts.Theme, "theme", "", "color theme: Nightfox, Kanagawa or Slate")
	f.IntVarP(&opts.TailLines, "tail", "n", 0, "keep only the last N lines")
	f.DurationVar(&opts.PollEvery, "poll", 0, "follow-mode re-read interval (default from config, 2s)")
	return cmd
}

// useColor resolves a color mode against the output stream.
func useColor(mode string, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	fd := out.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
