package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the top bar: name, size, search and follow state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("runlog", styles.Logo)}
	if m.name != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.name, max(m.width/3, 12)), styles.Text))
	}
	parts = append(parts, bg.Render(fmt.Sprintf("%d lines", m.engine.LineCount()), styles.MutedText))

	if term := m.engine.Term(); term != "" {
		parts = append(parts, bg.Render(m.matchSummary(), styles.WarningText))
	}

	if m.following {
		tail := "auto-tail off"
		if m.autoTail {
			tail = "auto-tail on"
		}
		parts = append(parts, bg.Render(tail, styles.FaintText))
		if m.status.IsOffline() {
			last := "soon"
			if !m.status.LastUpdated.IsZero() {
				last = m.status.LastUpdated.Format("15:04:05")
			}
			parts = append(parts,
				bg.Render("OFFLINE", styles.DangerText),
				bg.Render("retrying, last attempt "+last, styles.MutedText))
		}
	}

	if m.loadErr != nil {
		parts = append(parts, bg.Render(m.loadErr.Error(), styles.DangerText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

func (m Model) matchSummary() string {
	total := m.engine.Matches()
	if total == 0 {
		return "no matches"
	}
	if len(m.matches) > 0 {
		return fmt.Sprintf("%d matches, line %d/%d", total, m.matchIdx+1, len(m.matches))
	}
	return fmt.Sprintf("%d matches", total)
}

// renderCommandBar renders the search input while it is open and key hints
// otherwise.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searchActive {
		count := bg.Render(m.matchSummary(), styles.WarningText)
		if m.engine.Term() == "" {
			count = ""
		}
		return styles.Header.Width(m.width).MaxHeight(1).Render(m.searchInput.View() + bg.Spaces(2) + count)
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, 8)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		segments = append(segments, bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}
	if term := m.engine.Term(); term != "" {
		segments = append(segments, bg.Render("/"+truncate(term, 18), styles.AccentText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// truncateMiddle keeps the start and end of s, which for paths are the
// informative parts.
func truncateMiddle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max <= 5 {
		return s
	}
	keep := max - 3
	head := keep / 2
	tail := keep - head
	return string(r[:head]) + "..." + string(r[len(r)-tail:])
}
