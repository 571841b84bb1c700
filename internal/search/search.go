// Package search finds case-insensitive matches in a parsed document and
// overlays them as highlights without modifying the document.
package search

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/five82/runlog/internal/document"
)

// Span is a match as byte offsets into a line's content.
type Span struct {
	Start, End int
}

type lineHits struct {
	n     int
	spans []Span
}

// Index holds the matches of one term over one document.
// The zero value is an empty index.
type Index struct {
	term  string
	hits  []lineHits // ordered by line number
	total int
}

// Build scans every line of doc, nested lines included, for term. Matching
// folds case rune by rune ("İ" folds to "i\u0307") and counts
// non-overlapping occurrences within each line's content, so a match may
// span differently styled elements. An empty term yields an empty index.
func Build(doc document.Document, term string) *Index {
	ix := &Index{term: term}
	if term == "" {
		return ix
	}
	needle := fold(term).s
	if needle == "" {
		return ix
	}
	document.Walk(doc, func(l *document.Line, _ int) bool {
		if spans := find(l.Content(), needle); len(spans) > 0 {
			ix.hits = append(ix.hits, lineHits{n: l.N, spans: spans})
			ix.total += len(spans)
		}
		return true
	})
	return ix
}

// Term returns the search term.
func (ix *Index) Term() string { return ix.term }

// Matches returns the total number of matches.
func (ix *Index) Matches() int { return ix.total }

// Lines returns the numbers of the lines holding at least one match, in
// document order.
func (ix *Index) Lines() []int {
	out := make([]int, len(ix.hits))
	for i, h := range ix.hits {
		out[i] = h.n
	}
	return out
}

// Spans returns the matches on line n.
func (ix *Index) Spans(n int) []Span {
	i, ok := slices.BinarySearchFunc(ix.hits, n, func(h lineHits, n int) int {
		return h.n - n
	})
	if !ok {
		return nil
	}
	return ix.hits[i].spans
}

// Highlight returns the elements of l with Highlight set on every matched
// range. Elements are split at match boundaries; other styles are kept. When
// the line has no match its own elements are returned unchanged.
func (ix *Index) Highlight(l *document.Line) []document.Element {
	spans := ix.Spans(l.N)
	if len(spans) == 0 {
		return l.Elements
	}
	o := overlay{spans: spans}
	return o.elements(l.Elements)
}

func find(content, needle string) []Span {
	hay := fold(content)
	if len(hay.s) < len(needle) {
		return nil
	}
	var spans []Span
	for from := 0; ; {
		i := strings.Index(hay.s[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		sp := Span{Start: hay.offset(start), End: hay.endOffset(end)}
		if n := len(spans); n > 0 && sp.Start < spans[n-1].End {
			// Both matches touch one expanded rune.
			sp.Start = spans[n-1].End
		}
		spans = append(spans, sp)
		from = end
	}
	return spans
}

// folded is a lower-cased string with maps from its byte offsets back to
// the original string: offs holds the start of the source rune behind each
// byte and ends its end. Both are nil when the two strings share offsets.
type folded struct {
	s    string
	offs []int
	ends []int
}

// offset maps the start of a match.
func (f folded) offset(i int) int {
	if f.offs == nil {
		return i
	}
	return f.offs[i]
}

// endOffset maps the end of a non-empty match, widening it to the end of
// the source rune it stops in.
func (f folded) endOffset(i int) int {
	if f.ends == nil {
		return i
	}
	return f.ends[i-1]
}

func fold(s string) folded {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return folded{s: strings.ToLower(s)}
	}

	buf := make([]byte, 0, len(s))
	offs := make([]int, 0, len(s)+1)
	ends := make([]int, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		n := len(buf)
		buf = lower(buf, r)
		for ; n < len(buf); n++ {
			offs = append(offs, i)
			ends = append(ends, i+size)
		}
		i += size
	}
	offs = append(offs, len(s))
	return folded{s: string(buf), offs: offs, ends: ends}
}

// lower appends the full lowercase form of r. U+0130 is the one rune whose
// unconditional lowercase form is two runes; the final sigma rule, which
// depends on the surrounding word, is not applied.
func lower(buf []byte, r rune) []byte {
	if r == '\u0130' {
		return append(buf, "i\u0307"...)
	}
	return utf8.AppendRune(buf, unicode.ToLower(r))
}

type overlay struct {
	spans []Span
	si    int
	pos   int
}

// elements rewrites elems, advancing through the line content. Link
// children are handled by recursion; links are never nested by the parser.
func (o *overlay) elements(elems []document.Element) []document.Element {
	out := make([]document.Element, 0, len(elems)+2*len(o.spans))
	for _, e := range elems {
		if e.Kind == document.KindLink {
			e.Children = o.elements(e.Children)
			out = append(out, e)
			continue
		}
		out = o.text(out, e)
	}
	return out
}

func (o *overlay) text(out []document.Element, e document.Element) []document.Element {
	if e.Text == "" {
		return append(out, e)
	}
	var base document.Styles
	if e.Kind == document.KindStyled {
		base = e.Styles
	}
	origin := o.pos
	start, end := o.pos, o.pos+len(e.Text)
	o.pos = end
	for start < end {
		for o.si < len(o.spans) && o.spans[o.si].End <= start {
			o.si++
		}
		if o.si < len(o.spans) && o.spans[o.si].Start <= start {
			stop := min(end, o.spans[o.si].End)
			hl := base
			hl.Highlight = true
			out = append(out, document.Styled(e.Text[start-origin:stop-origin], hl))
			start = stop
			continue
		}
		stop := end
		if o.si < len(o.spans) && o.spans[o.si].Start < stop {
			stop = o.spans[o.si].Start
		}
		out = append(out, document.Styled(e.Text[start-origin:stop-origin], base))
		start = stop
	}
	return out
}
