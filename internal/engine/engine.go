package engine

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/five82/runlog/internal/annotation"
	"github.com/five82/runlog/internal/document"
	"github.com/five82/runlog/internal/grouping"
	"github.com/five82/runlog/internal/links"
	"github.com/five82/runlog/internal/search"
	"github.com/five82/runlog/internal/sgr"
)

// ErrInvalidText is matched by every error SetRaw returns.
var ErrInvalidText = errors.New("input is not valid UTF-8")

// DecodeError reports where raw input stopped being valid UTF-8.
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 at byte %d", e.Offset)
}

// Is makes errors.Is(err, ErrInvalidText) hold for decode errors.
func (e *DecodeError) Is(target error) bool { return target == ErrInvalidText }

// Option configures an Engine.
type Option func(*Engine)

// WithStyleScope sets whether escape-code styling survives line breaks.
func WithStyleScope(s sgr.Scope) Option {
	return func(e *Engine) { e.scope = s }
}

// WithTimestamps enables or disables leading timestamp parsing.
func WithTimestamps(on bool) Option {
	return func(e *Engine) { e.timestamps = on }
}

// Engine holds one log session: the raw text, the search term, the parsed
// document and its search index. It is not safe for concurrent use.
type Engine struct {
	scope      sgr.Scope
	timestamps bool

	raw   string
	term  string
	doc   document.Document
	index *search.Index
}

// New returns an engine with an empty document.
func New(opts ...Option) *Engine {
	e := &Engine{timestamps: true}
	for _, opt := range opts {
		opt(e)
	}
	e.index = search.Build(nil, "")
	return e
}

// SetRaw replaces the log text and reparses it. The current search term is
// applied to the new document. Invalid UTF-8 is rejected and leaves the
// engine unchanged.
func (e *Engine) SetRaw(raw []byte) error {
	if !utf8.Valid(raw) {
		return &DecodeError{Offset: invalidOffset(raw)}
	}
	e.set(string(raw))
	return nil
}

// SetRawString is SetRaw for text already held as a string.
func (e *Engine) SetRawString(raw string) error {
	if !utf8.ValidString(raw) {
		return &DecodeError{Offset: invalidOffset([]byte(raw))}
	}
	e.set(raw)
	return nil
}

func (e *Engine) set(raw string) {
	doc := parse(raw, e.scope, e.timestamps)
	index := search.Build(doc, e.term)
	e.raw, e.doc, e.index = raw, doc, index
}

// SetSearch replaces the search term and recomputes matches against the
// current document.
func (e *Engine) SetSearch(term string) {
	e.term = term
	e.index = search.Build(e.doc, term)
}

// Matches returns the number of matches of the current term.
func (e *Engine) Matches() int { return e.index.Matches() }

// Stringify encodes the document as JSON with search matches highlighted.
func (e *Engine) Stringify(pretty bool) string {
	return string(document.Marshal(e.doc, pretty, e.index))
}

// Raw returns the current log text.
func (e *Engine) Raw() string { return e.raw }

// Term returns the current search term.
func (e *Engine) Term() string { return e.term }

// Document returns the parsed document. Callers must not modify it.
func (e *Engine) Document() document.Document { return e.doc }

// LineCount returns the number of lines in the document, nested included.
func (e *Engine) LineCount() int { return e.doc.Len() }

// Index returns the search index for the current term and document.
func (e *Engine) Index() *search.Index { return e.index }

// Highlight returns the elements of l with search matches highlighted.
func (e *Engine) Highlight(l *document.Line) []document.Element {
	return e.index.Highlight(l)
}

// parse runs the full pipeline over raw: tokenizing with style resolution,
// annotation parsing, link detection and grouping.
func parse(raw string, scope sgr.Scope, timestamps bool) document.Document {
	var (
		b  grouping.Builder
		st sgr.State
	)
	for _, text := range sgr.Lines(raw) {
		if scope == sgr.ScopeLine {
			st.Reset()
		}
		ann := annotation.Parse(text, timestamps)
		tok := sgr.Tokenize(ann.Rest, &st)
		b.Add(document.Line{
			TS:       ann.TS,
			HasTS:    ann.HasTS,
			Cmd:      ann.Cmd,
			Elements: links.Split(tok),
		})
	}
	return b.Finish()
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
