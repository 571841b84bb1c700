package sgr

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/runlog/internal/document"
)

// Run is a piece of line content rendered with one style.
type Run struct {
	Text   string
	Styles document.Styles
}

// Tokens is the tokenized form of one line.
type Tokens struct {
	// Content is the line with every escape sequence removed.
	Content string
	// Runs partition Content; adjacent runs always differ in style.
	Runs []Run
}

// Lines splits raw text into lines. A trailing "\r" is dropped from each
// line, empty lines are kept, and a final line terminator does not start an
// extra empty line.
func Lines(raw string) []string {
	if raw == "" {
		return nil
	}
	raw = strings.TrimSuffix(raw, "\n")
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Tokenize strips escape sequences from line, applying SGR sequences to st,
// and returns the styled runs. st is left holding the state at end of line.
func Tokenize(line string, st *State) Tokens {
	type span struct {
		start, end int
		styles     document.Styles
	}
	var (
		buf   = make([]byte, 0, len(line))
		spans []span
		cur   = st.Styles()
		start int
	)
	cut := func() {
		if len(buf) == start {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].styles == cur {
			spans[n-1].end = len(buf)
		} else {
			spans = append(spans, span{start: start, end: len(buf), styles: cur})
		}
		start = len(buf)
	}

	for len(line) > 0 {
		i := strings.IndexByte(line, ansi.ESC)
		if i < 0 {
			buf = append(buf, line...)
			break
		}
		buf = append(buf, line[:i]...)
		line = line[i:]

		seq, _, n, state := ansi.DecodeSequence(line, ansi.NormalState, nil)
		if state != ansi.NormalState {
			// Unterminated sequence: keep the rest of the line verbatim.
			buf = append(buf, line...)
			break
		}
		if n <= 0 {
			seq, n = line[:1], 1
		}
		line = line[n:]

		if !complete(seq) {
			buf = append(buf, seq...)
			continue
		}
		if !isSGR(seq) {
			continue
		}
		st.Apply(st.params(seq))
		if next := st.Styles(); next != cur {
			cut()
			cur = next
		}
	}
	cut()

	content := string(buf)
	runs := make([]Run, 0, len(spans))
	for _, sp := range spans {
		runs = append(runs, Run{Text: content[sp.start:sp.end], Styles: sp.styles})
	}
	return Tokens{Content: content, Runs: runs}
}

// complete reports whether seq, which starts with ESC, is a whole escape
// sequence rather than a cancelled or malformed one.
func complete(seq string) bool {
	if len(seq) < 2 {
		return false
	}
	last := seq[len(seq)-1]
	switch seq[1] {
	case '[':
		return len(seq) > 2 && last >= '@' && last <= '~'
	case ']', 'P', 'X', '^', '_':
		return last == ansi.BEL || strings.HasSuffix(seq, "\x1b\\")
	default:
		return last >= '0' && last <= '~'
	}
}

// isSGR reports whether seq is an SGR sequence ("ESC[...m" with no private
// prefix or intermediate bytes) the parser can hold: at most maxParams
// parameters of at most maxDigits digits each.
func isSGR(seq string) bool {
	if len(seq) < 3 || seq[1] != '[' || seq[len(seq)-1] != 'm' {
		return false
	}
	params := seq[2 : len(seq)-1]
	seps, digits := 0, 0
	for i := 0; i < len(params); i++ {
		switch c := params[i]; {
		case c >= '0' && c <= '9':
			digits++
			if digits > maxDigits {
				return false
			}
		case c == ';' || c == ':':
			seps++
			digits = 0
		default:
			return false
		}
	}
	return seps+2 <= maxParams
}
