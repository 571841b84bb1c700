package document

// Command is a workflow command annotation carried by a line.
// The zero value means the line has no command.
type Command uint8

const (
	CmdNone Command = iota
	CmdCommand
	CmdDebug
	CmdError
	CmdInfo
	CmdNotice
	CmdVerbose
	CmdWarning
	CmdGroup
	CmdEndGroup
)

// commandKeywords maps marker keywords to commands. Lookups are exact.
var commandKeywords = map[string]Command{
	"command":  CmdCommand,
	"debug":    CmdDebug,
	"error":    CmdError,
	"info":     CmdInfo,
	"notice":   CmdNotice,
	"verbose":  CmdVerbose,
	"warning":  CmdWarning,
	"group":    CmdGroup,
	"endgroup": CmdEndGroup,
}

var commandNames = [...]string{
	CmdNone:     "",
	CmdCommand:  "command",
	CmdDebug:    "debug",
	CmdError:    "error",
	CmdInfo:     "info",
	CmdNotice:   "notice",
	CmdVerbose:  "verbose",
	CmdWarning:  "warning",
	CmdGroup:    "group",
	CmdEndGroup: "endgroup",
}

// LookupCommand resolves a marker keyword. Unknown keywords report false.
func LookupCommand(keyword string) (Command, bool) {
	c, ok := commandKeywords[keyword]
	return c, ok
}

// String returns the marker keyword, or "" for CmdNone and unknown values.
func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return ""
}

// ColorKind distinguishes palette colors from explicit RGB colors.
type ColorKind uint8

const (
	ColorNone ColorKind = iota
	ColorPalette
	ColorRGB
)

// paletteNames is the fixed 16-entry color name table.
var paletteNames = [16]string{
	"black",
	"red",
	"green",
	"yellow",
	"blue",
	"magenta",
	"cyan",
	"white",
	"brightBlack",
	"brightRed",
	"brightGreen",
	"brightYellow",
	"brightBlue",
	"brightMagenta",
	"brightCyan",
	"brightWhite",
}

// Color is either a palette index in [0,15] or an RGB triple.
// The zero value is "no color".
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// Palette returns the palette color i. Indices above 15 wrap into the table.
func Palette(i uint8) Color {
	return Color{Kind: ColorPalette, Index: i & 0x0f}
}

// RGB returns an explicit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsZero reports whether the color is absent.
func (c Color) IsZero() bool { return c.Kind == ColorNone }

// Name returns the palette name for palette colors and "" otherwise.
func (c Color) Name() string {
	if c.Kind != ColorPalette {
		return ""
	}
	return paletteNames[c.Index&0x0f]
}

// PaletteName returns the table entry for index i (mod 16).
func PaletteName(i uint8) string {
	return paletteNames[i&0x0f]
}

// Styles is the rendition attached to a run of text.
type Styles struct {
	Bold      bool
	Italic    bool
	Underline bool
	Highlight bool
	Fg        Color
	Bg        Color
}

// IsZero reports whether no style is set.
func (s Styles) IsZero() bool { return s == Styles{} }

// Kind tags the variant held by an Element.
type Kind uint8

const (
	KindText Kind = iota
	KindStyled
	KindLink
)

// Element is one renderable piece of a line.
//
// KindText uses Text. KindStyled uses Text and Styles. KindLink uses Href and
// Children.
type Element struct {
	Kind     Kind
	Text     string
	Styles   Styles
	Href     string
	Children []Element
}

// Text returns a plain text element.
func Text(s string) Element {
	return Element{Kind: KindText, Text: s}
}

// Styled returns a styled element, or a plain one when st is empty.
func Styled(s string, st Styles) Element {
	if st.IsZero() {
		return Text(s)
	}
	return Element{Kind: KindStyled, Text: s, Styles: st}
}

// Link returns a link element.
func Link(href string, children []Element) Element {
	return Element{Kind: KindLink, Href: href, Children: children}
}

// Content returns the visible text of the element.
func (e Element) Content() string {
	switch e.Kind {
	case KindLink:
		return Content(e.Children)
	default:
		return e.Text
	}
}

// Content concatenates the visible text of elems, descending into links.
func Content(elems []Element) string {
	if len(elems) == 1 && elems[0].Kind != KindLink {
		return elems[0].Text
	}
	var buf []byte
	stack := [][]Element{elems}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if len(top) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		e := top[0]
		stack[len(stack)-1] = top[1:]
		if e.Kind == KindLink {
			stack = append(stack, e.Children)
			continue
		}
		buf = append(buf, e.Text...)
	}
	return string(buf)
}

// Group holds the lines folded under a group marker.
type Group struct {
	Ended    bool
	Children []Line
}

// Line is one parsed log line.
type Line struct {
	N        int
	TS       int64 // Unix milliseconds, valid when HasTS
	HasTS    bool
	Cmd      Command
	Elements []Element
	Group    *Group
}

// Content returns the visible text of the line.
func (l *Line) Content() string {
	return Content(l.Elements)
}

// Document is the ordered list of root lines.
type Document []Line

// Walk visits every line in document order: a group line before its
// children. Children are skipped when fn returns false. The traversal keeps
// its own stack, so nesting depth is bounded only by memory.
func Walk(lines []Line, fn func(l *Line, depth int) bool) {
	type frame struct {
		lines []Line
		next  int
	}
	stack := []frame{{lines: lines}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.lines) {
			stack = stack[:len(stack)-1]
			continue
		}
		l := &top.lines[top.next]
		top.next++
		depth := len(stack) - 1
		if fn(l, depth) && l.Group != nil && len(l.Group.Children) > 0 {
			stack = append(stack, frame{lines: l.Group.Children})
		}
	}
}

// Len returns the number of lines in the document, nested lines included.
func (d Document) Len() int {
	n := 0
	Walk(d, func(*Line, int) bool {
		n++
		return true
	})
	return n
}
