package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tidwall/pretty"

	"github.com/five82/runlog/internal/engine"
	"github.com/five82/runlog/internal/logtail"
)

// ParseOptions configure a one-shot parse.
type ParseOptions struct {
	Path      string    // file or URL; "" or "-" reads standard input
	Input     io.Reader // read instead of Path when set
	TailLines int
	Engine    []engine.Option

	Search string
	Count  bool // print only the match count
	Pretty bool
	Color  bool
}

// Parse reads one log, parses it and writes the JSON document, or the match
// count, to w.
func Parse(ctx context.Context, opts ParseOptions, w io.Writer) error {
	raw, err := readInput(ctx, opts)
	if err != nil {
		return err
	}

	e := engine.New(opts.Engine...)
	e.SetSearch(opts.Search)
	if err := e.SetRaw(raw); err != nil {
		return fmt.Errorf("parse log: %w", err)
	}
	slog.Debug("parsed log", "bytes", len(raw), "lines", e.LineCount(), "matches", e.Matches())

	if opts.Count {
		_, err := fmt.Fprintln(w, e.Matches())
		return err
	}

	out := []byte(e.Stringify(opts.Pretty))
	if opts.Color {
		out = pretty.Color(out, nil)
	}
	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readInput(ctx context.Context, opts ParseOptions) ([]byte, error) {
	if opts.Input == nil {
		return newSource(opts.Path, opts.TailLines).Read(ctx)
	}
	rc, _, err := logtail.NewReader(opts.Input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return logtail.ReadAll(rc, opts.TailLines)
}
