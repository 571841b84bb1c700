package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/zeebo/blake3"

	"github.com/five82/runlog/internal/config"
	"github.com/five82/runlog/internal/logtail"
	"github.com/five82/runlog/internal/prefs"
	"github.com/five82/runlog/internal/remote"
	"github.com/five82/runlog/internal/state"
	"github.com/five82/runlog/internal/ui"
)

// Options configure the viewer. Zero values defer to the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/runlog/prefs.toml

	Path      string
	Follow    bool
	Search    string
	Theme     string
	TailLines int
	PollEvery time.Duration
}

// Run opens the viewer on opts.Path until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	if opts.Follow && (opts.Path == "" || opts.Path == logtail.StdinPath) {
		return errors.New("follow mode needs a file path or URL")
	}

	tail := cfg.TailLines
	if opts.TailLines > 0 {
		tail = opts.TailLines
	}
	src := newSource(opts.Path, tail)

	store := &state.Store{}
	if err := refresh(ctx, store, src, blake3.New()); err != nil {
		return err
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}
	if opts.Follow {
		StartPoller(ctx, store, src, interval)
	}

	slog.Debug("starting viewer", "path", opts.Path, "follow", opts.Follow, "interval", interval)

	restore := quietLogs()
	defer restore()
	return ui.Run(viewerOptions(ctx, cfg, userPrefs, opts, store, interval))
}

func viewerOptions(ctx context.Context, cfg config.Config, userPrefs prefs.Prefs, opts Options, store *state.Store, interval time.Duration) ui.Options {
	theme := opts.Theme
	if theme == "" {
		theme = cfg.Theme
	}
	return ui.Options{
		Context:   ctx,
		Store:     store,
		Name:      opts.Path,
		Engine:    cfg.EngineOptions(),
		Search:    opts.Search,
		Follow:    opts.Follow,
		PollTick:  interval,
		ThemeName: theme,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
}

// newSource picks a URL or file source for path.
func newSource(path string, tail int) Source {
	if remote.IsURL(path) {
		return &remote.Source{
			Fetcher:   remote.NewClient(os.Getenv(remote.TokenEnv)),
			URL:       path,
			TailLines: tail,
		}
	}
	return FileSource{Path: path, TailLines: tail}
}

// quietLogs discards log output while the viewer owns the terminal and
// returns a func restoring the previous logger.
func quietLogs() func() {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return func() { slog.SetDefault(prev) }
}
