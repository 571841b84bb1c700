// Package sgr interprets Select Graphic Rendition escape codes and splits
// log lines into styled text runs.
package sgr

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/runlog/internal/document"
)

// Scope controls how long a style state lives.
type Scope uint8

const (
	// ScopeLine resets the state at every line break.
	ScopeLine Scope = iota
	// ScopeDocument carries the state across line breaks until a reset code.
	ScopeDocument
)

// ParseScope parses "line" or "document". An empty string means ScopeLine.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line":
		return ScopeLine, nil
	case "document":
		return ScopeDocument, nil
	default:
		return ScopeLine, fmt.Errorf("unknown style scope %q", s)
	}
}

func (s Scope) String() string {
	if s == ScopeDocument {
		return "document"
	}
	return "line"
}

// State is the accumulated rendition. The zero value has no styles.
type State struct {
	styles document.Styles
	parser *ansi.Parser
}

// Styles returns the current rendition.
func (s *State) Styles() document.Styles { return s.styles }

// Reset clears every flag and color.
func (s *State) Reset() { s.styles = document.Styles{} }

const (
	// maxParam caps parsed values; anything larger is invalid for every code.
	maxParam = 1 << 16
	// maxParams is the parser's parameter capacity. Longer sequences are
	// ignored before they reach the parser.
	maxParams = 256
	// maxDigits bounds one parameter's digit run so the parser's
	// accumulator cannot overflow.
	maxDigits = 18
)

// params decodes the parameters of seq, a complete SGR sequence already
// checked by isSGR.
func (s *State) params(seq string) ansi.Params {
	if s.parser == nil {
		s.parser = newParser()
	}
	ansi.DecodeSequence(seq, ansi.NormalState, s.parser)
	return s.parser.Params()
}

func newParser() *ansi.Parser {
	p := new(ansi.Parser)
	p.SetParamsSize(maxParams)
	p.SetDataSize(0)
	return p
}

// Apply interprets the parameters of one SGR sequence. No parameters means
// reset. Unknown or malformed codes are skipped and the rest of the sequence
// still applies.
func (s *State) Apply(params ansi.Params) {
	if len(params) == 0 {
		s.Reset()
		return
	}
	groups := groupParams(params)
	for i := 0; i < len(groups); i++ {
		g := groups[i]
		switch code := g[0]; {
		case code == 0:
			s.Reset()
		case code == 1:
			s.styles.Bold = true
		case code == 3:
			s.styles.Italic = true
		case code == 4:
			s.styles.Underline = true
		case code == 22:
			s.styles.Bold = false
		case code == 23:
			s.styles.Italic = false
		case code == 24:
			s.styles.Underline = false
		case code >= 30 && code <= 37:
			s.styles.Fg = document.Palette(uint8(code - 30))
		case code >= 90 && code <= 97:
			s.styles.Fg = document.Palette(uint8(code - 90 + 8))
		case code == 39:
			s.styles.Fg = document.Color{}
		case code >= 40 && code <= 47:
			s.styles.Bg = document.Palette(uint8(code - 40))
		case code >= 100 && code <= 107:
			s.styles.Bg = document.Palette(uint8(code - 100 + 8))
		case code == 49:
			s.styles.Bg = document.Color{}
		case code == 38 || code == 48:
			var (
				c  document.Color
				ok bool
			)
			if len(g) > 1 {
				c, ok = extendedSub(g[1:])
			} else {
				var used int
				c, ok, used = extended(groups[i+1:])
				i += used
			}
			if !ok {
				continue
			}
			if code == 38 {
				s.styles.Fg = c
			} else {
				s.styles.Bg = c
			}
		}
	}
}

// groupParams unpacks parsed parameters into one group per
// semicolon-separated field, each holding the field's colon sub-parameters:
// "1;38:5:3" gives [[1] [38 5 3]]. Missing values read as 0 and
// out-of-range values as -1.
func groupParams(params ansi.Params) [][]int {
	groups := make([][]int, 0, len(params))
	var g []int
	for _, p := range params {
		v := p.Param(0)
		if v >= maxParam {
			v = -1
		}
		g = append(g, v)
		if !p.HasMore() {
			groups = append(groups, g)
			g = nil
		}
	}
	if g != nil {
		groups = append(groups, g)
	}
	return groups
}

// extended decodes the semicolon form "5;n" or "2;r;g;b" that follows a
// 38/48 code. used is the number of parameters consumed.
func extended(rest [][]int) (c document.Color, ok bool, used int) {
	if len(rest) == 0 {
		return c, false, 0
	}
	switch rest[0][0] {
	case 5:
		if len(rest) < 2 {
			return c, false, len(rest)
		}
		c, ok = indexed(rest[1][0])
		return c, ok, 2
	case 2:
		if len(rest) < 4 {
			return c, false, len(rest)
		}
		c, ok = rgb(rest[1][0], rest[2][0], rest[3][0])
		return c, ok, 4
	default:
		return c, false, 1
	}
}

// extendedSub decodes the colon form "38:5:n", "38:2:r:g:b" or
// "38:2:cs:r:g:b" where cs is an ignored color space id.
func extendedSub(sub []int) (document.Color, bool) {
	switch {
	case sub[0] == 5 && len(sub) == 2:
		return indexed(sub[1])
	case sub[0] == 2 && len(sub) == 4:
		return rgb(sub[1], sub[2], sub[3])
	case sub[0] == 2 && len(sub) == 5:
		return rgb(sub[2], sub[3], sub[4])
	default:
		return document.Color{}, false
	}
}

// indexed maps a 256-color index onto the 16-entry palette, using the
// closest basic color for the cube and grayscale ranges.
func indexed(n int) (document.Color, bool) {
	if n < 0 || n > 255 {
		return document.Color{}, false
	}
	basic := ansi.Convert16(ansi.IndexedColor(n))
	return document.Palette(uint8(basic)), true
}

func rgb(r, g, b int) (document.Color, bool) {
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return document.Color{}, false
		}
	}
	return document.RGB(uint8(r), uint8(g), uint8(b)), true
}
