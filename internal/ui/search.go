package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// startSearch opens the search input. The search is live: every edit
// re-runs it and jumps to the first match at or after where it started.
func (m *Model) startSearch() tea.Cmd {
	m.searchActive = true
	m.prevTerm = m.engine.Term()
	m.originLine = max(m.cursorLine(), 0)
	m.searchInput.SetValue(m.prevTerm)
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue(m.prevTerm)
		m.setTerm(m.prevTerm)
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if term := m.searchInput.Value(); term != before {
		m.setTerm(term)
		m.jumpFrom(m.originLine)
	}
	return m, cmd
}

func (m *Model) setTerm(term string) {
	m.engine.SetSearch(term)
	m.refreshMatches()
}

// refreshMatches reloads the matching line numbers from the engine's index.
func (m *Model) refreshMatches() {
	m.matches = m.engine.Index().Lines()
	if m.matchIdx >= len(m.matches) {
		m.matchIdx = 0
	}
}

func (m *Model) clearSearch() {
	m.searchInput.SetValue("")
	m.setTerm("")
	m.matchIdx = 0
}

// jumpFrom moves to the first matching line numbered n or later, wrapping
// to the first match.
func (m *Model) jumpFrom(n int) {
	if len(m.matches) == 0 {
		return
	}
	i := sort.SearchInts(m.matches, n)
	if i == len(m.matches) {
		i = 0
	}
	m.matchIdx = i
	m.reveal(m.matches[i])
}

func (m *Model) nextMatch() {
	m.jumpFrom(m.cursorLine() + 1)
}

func (m *Model) prevMatch() {
	if len(m.matches) == 0 {
		return
	}
	i := sort.SearchInts(m.matches, m.cursorLine()) - 1
	if i < 0 {
		i = len(m.matches) - 1
	}
	m.matchIdx = i
	m.reveal(m.matches[i])
}

// activeMatchLine is the line number of the selected match, or -1.
func (m Model) activeMatchLine() int {
	if len(m.matches) == 0 || m.matchIdx >= len(m.matches) {
		return -1
	}
	return m.matches[m.matchIdx]
}
