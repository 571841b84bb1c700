// Package grouping folds the lines between group and endgroup markers into
// a tree.
package grouping

import "github.com/five82/runlog/internal/document"

// Builder accumulates lines into a document. Open groups live on an
// explicit stack, innermost last, so nesting depth never touches the
// goroutine stack.
//
// Lines are stored by value in their parent's slice. Each open group is
// referenced through its *document.Group, which stays valid while the
// slices holding the owning lines grow.
type Builder struct {
	root  []document.Line
	stack []*document.Group
	next  int
}

// Add appends a parsed line. N is assigned by the builder.
//
// A group line opens a group that receives every following line until a
// matching endgroup. An endgroup line that closes a group is consumed and
// does not become a line. With no open group it closes nothing and is kept
// as an ordinary line.
func (b *Builder) Add(line document.Line) {
	if line.Cmd == document.CmdEndGroup && len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		top.Ended = true
		b.stack = b.stack[:len(b.stack)-1]
		return
	}

	line.N = b.next
	b.next++
	line.Group = nil
	if line.Cmd == document.CmdGroup {
		line.Group = &document.Group{}
	}

	if n := len(b.stack); n > 0 {
		parent := b.stack[n-1]
		parent.Children = append(parent.Children, line)
	} else {
		b.root = append(b.root, line)
	}

	if line.Group != nil {
		b.stack = append(b.stack, line.Group)
	}
}

// Depth returns the number of open groups.
func (b *Builder) Depth() int { return len(b.stack) }

// Finish returns the document. Groups still open keep Ended false and own
// every line added after them. The builder is reset.
func (b *Builder) Finish() document.Document {
	doc := document.Document(b.root)
	*b = Builder{}
	return doc
}
