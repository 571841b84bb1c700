package document

import (
	"strconv"

	"github.com/tidwall/gjson"
)

const indentUnit = "  "

// Highlighter rewrites the elements of a line at encode time.
type Highlighter interface {
	Highlight(l *Line) []Element
}

// Marshal encodes doc as JSON. With pretty set the output is indented by two
// spaces per level. hl may be nil.
func Marshal(doc Document, pretty bool, hl Highlighter) []byte {
	return AppendJSON(nil, doc, pretty, hl)
}

// AppendJSON appends the encoding of doc to dst.
func AppendJSON(dst []byte, doc Document, pretty bool, hl Highlighter) []byte {
	e := encoder{buf: dst, pretty: pretty, hl: hl}
	e.document(doc)
	return e.buf
}

type encoder struct {
	buf    []byte
	pretty bool
	depth  int
	hl     Highlighter
}

func (e *encoder) newline() {
	if !e.pretty {
		return
	}
	e.buf = append(e.buf, '\n')
	for i := 0; i < e.depth; i++ {
		e.buf = append(e.buf, indentUnit...)
	}
}

func (e *encoder) open(c byte) {
	e.buf = append(e.buf, c)
	e.depth++
}

func (e *encoder) close(c byte) {
	e.depth--
	e.newline()
	e.buf = append(e.buf, c)
}

// item starts the i-th member of an array or object.
func (e *encoder) item(i int) {
	if i > 0 {
		e.buf = append(e.buf, ',')
	}
	e.newline()
}

func (e *encoder) key(i int, name string) {
	e.item(i)
	e.buf = append(e.buf, '"')
	e.buf = append(e.buf, name...)
	e.buf = append(e.buf, '"', ':')
	if e.pretty {
		e.buf = append(e.buf, ' ')
	}
}

func (e *encoder) str(s string) {
	e.buf = gjson.AppendJSONString(e.buf, s)
}

func (e *encoder) num(n int64) {
	e.buf = strconv.AppendInt(e.buf, n, 10)
}

// document writes the line tree. Every open array of lines is a frame on the
// stack; a frame above the root belongs to a group whose object (and the
// owning line's object) are closed when the frame is exhausted.
func (e *encoder) document(doc Document) {
	if len(doc) == 0 {
		e.buf = append(e.buf, '[', ']')
		return
	}
	type frame struct {
		lines []Line
		next  int
	}
	e.open('[')
	stack := []frame{{lines: doc}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.lines) {
			stack = stack[:len(stack)-1]
			e.close(']')
			if len(stack) > 0 {
				e.close('}') // group
				e.close('}') // line
			}
			continue
		}
		l := &top.lines[top.next]
		e.item(top.next)
		top.next++

		e.lineHead(l)
		if l.Group == nil {
			e.close('}')
			continue
		}
		e.key(fieldCount(l), "group")
		e.open('{')
		e.key(0, "ended")
		e.buf = strconv.AppendBool(e.buf, l.Group.Ended)
		e.key(1, "children")
		if len(l.Group.Children) == 0 {
			e.buf = append(e.buf, '[', ']')
			e.close('}')
			e.close('}')
			continue
		}
		e.open('[')
		stack = append(stack, frame{lines: l.Group.Children})
	}
}

// lineHead opens the line object and writes every field except "group".
func (e *encoder) lineHead(l *Line) {
	e.open('{')
	i := 0
	e.key(i, "n")
	e.num(int64(l.N))
	i++
	if l.HasTS {
		e.key(i, "ts")
		e.num(l.TS)
		i++
	}
	if l.Cmd != CmdNone {
		e.key(i, "cmd")
		e.num(int64(l.Cmd))
		i++
	}
	e.key(i, "elements")
	elems := l.Elements
	if e.hl != nil {
		elems = e.hl.Highlight(l)
	}
	e.elements(elems)
}

func fieldCount(l *Line) int {
	n := 2 // n, elements
	if l.HasTS {
		n++
	}
	if l.Cmd != CmdNone {
		n++
	}
	return n
}

// elements writes an element array. Link nesting is shallow by construction
// (the link detector only emits text children), so this recurses.
func (e *encoder) elements(elems []Element) {
	if len(elems) == 0 {
		e.buf = append(e.buf, '[', ']')
		return
	}
	e.open('[')
	for i := range elems {
		e.item(i)
		e.element(&elems[i])
	}
	e.close(']')
}

func (e *encoder) element(el *Element) {
	switch el.Kind {
	case KindLink:
		e.open('{')
		e.key(0, "href")
		e.str(el.Href)
		e.key(1, "children")
		e.elements(el.Children)
		e.close('}')
	case KindStyled:
		if el.Styles.IsZero() {
			e.str(el.Text)
			return
		}
		e.open('{')
		e.key(0, "content")
		e.str(el.Text)
		e.key(1, "styles")
		e.styles(el.Styles)
		e.close('}')
	default:
		e.str(el.Text)
	}
}

func (e *encoder) styles(s Styles) {
	e.open('{')
	i := 0
	flag := func(name string, set bool) {
		if set {
			e.key(i, name)
			e.buf = append(e.buf, "true"...)
			i++
		}
	}
	flag("b", s.Bold)
	flag("i", s.Italic)
	flag("u", s.Underline)
	flag("hl", s.Highlight)
	if !s.Fg.IsZero() {
		e.key(i, "fg")
		e.color(s.Fg)
		i++
	}
	if !s.Bg.IsZero() {
		e.key(i, "bg")
		e.color(s.Bg)
	}
	e.close('}')
}

func (e *encoder) color(c Color) {
	if c.Kind == ColorPalette {
		e.str(c.Name())
		return
	}
	e.open('[')
	for i, v := range [3]uint8{c.R, c.G, c.B} {
		e.item(i)
		e.num(int64(v))
	}
	e.close(']')
}
