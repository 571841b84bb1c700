package ui

import (
	"slices"
	"sort"

	"github.com/five82/runlog/internal/document"
)

// row is one visible line of the folded tree.
type row struct {
	line  *document.Line
	depth int
}

// flatten lists the lines visible with the given groups expanded. Line
// numbers increase along the result.
func flatten(doc document.Document, expanded map[int]bool) []row {
	var rows []row
	document.Walk(doc, func(l *document.Line, depth int) bool {
		rows = append(rows, row{line: l, depth: depth})
		return l.Group == nil || expanded[l.N]
	})
	return rows
}

// ancestors returns the numbers of the group lines enclosing line n,
// outermost first.
func ancestors(doc document.Document, n int) []int {
	var path, found []int
	done := false
	document.Walk(doc, func(l *document.Line, depth int) bool {
		if done {
			return false
		}
		path = path[:depth]
		if l.N == n {
			found = slices.Clone(path)
			done = true
			return false
		}
		if l.Group != nil {
			path = append(path, l.N)
		}
		return true
	})
	return found
}

func groupLines(doc document.Document) []int {
	var ns []int
	document.Walk(doc, func(l *document.Line, _ int) bool {
		if l.Group != nil {
			ns = append(ns, l.N)
		}
		return true
	})
	return ns
}

// rowIndex returns the index of the first visible row numbered n or later.
func (m Model) rowIndex(n int) int {
	return sort.Search(len(m.rows), func(i int) bool {
		return m.rows[i].line.N >= n
	})
}

func (m Model) cursorLine() int {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return -1
	}
	return m.rows[m.cursor].line.N
}

// rebuildRows recomputes the visible rows and keeps the cursor on the same
// line, or the next visible one.
func (m *Model) rebuildRows() {
	n := m.cursorLine()
	m.rows = flatten(m.engine.Document(), m.expanded)
	if n < 0 {
		m.cursor = 0
	} else {
		m.cursor = min(m.rowIndex(n), max(len(m.rows)-1, 0))
	}
	m.ensureVisible()
}

// reveal expands every group enclosing line n and moves the cursor to it.
func (m *Model) reveal(n int) {
	for _, g := range ancestors(m.engine.Document(), n) {
		m.expanded[g] = true
	}
	m.rows = flatten(m.engine.Document(), m.expanded)
	if i := m.rowIndex(n); i < len(m.rows) {
		m.cursor = i
	}
	m.autoTail = false
	m.center()
}

// toggleGroup folds or unfolds the group under the cursor. On a line inside
// a group it folds the enclosing group.
func (m *Model) toggleGroup() {
	if len(m.rows) == 0 {
		return
	}
	r := m.rows[m.cursor]
	if r.line.Group != nil {
		m.expanded[r.line.N] = !m.expanded[r.line.N]
		m.rebuildRows()
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth == r.depth-1 {
			m.expanded[m.rows[i].line.N] = false
			m.cursor = i
			m.rebuildRows()
			return
		}
	}
}

// toggleAll expands every group, or collapses them all when all are
// already expanded.
func (m *Model) toggleAll() {
	groups := groupLines(m.engine.Document())
	all := true
	for _, n := range groups {
		if !m.expanded[n] {
			all = false
			break
		}
	}
	clear(m.expanded)
	if !all {
		for _, n := range groups {
			m.expanded[n] = true
		}
	}
	m.rebuildRows()
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.autoTail = m.cursor == len(m.rows)-1 && m.autoTail
	m.ensureVisible()
}

func (m *Model) gotoBottom() {
	m.cursor = max(len(m.rows)-1, 0)
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
	m.top = min(m.top, max(len(m.rows)-h, 0))
	m.top = max(m.top, 0)
}

// center scrolls so the cursor sits mid-screen when possible.
func (m *Model) center() {
	m.top = m.cursor - m.bodyHeight()/2
	m.ensureVisible()
}
