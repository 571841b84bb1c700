package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/runlog/internal/document"
)

func (m Model) renderBody() string {
	h := m.bodyHeight()
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()

	lines := make([]string, 0, h)
	if len(m.rows) == 0 {
		msg := "No log lines"
		if !m.status.HasData() && m.status.LastError != nil {
			msg = "Waiting for log: " + m.status.LastError.Error()
		}
		lines = append(lines, bg.FitLine(bg.Render(msg, styles.MutedText), m.width))
	}
	for i := m.top; i < len(m.rows) && len(lines) < h; i++ {
		lines = append(lines, m.renderRow(i))
	}
	for len(lines) < h {
		lines = append(lines, bg.Spaces(m.width))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one visible line: gutter, optional timestamp, fold
// marker, command badge, then the line's elements with search highlights.
func (m Model) renderRow(i int) string {
	r := m.rows[i]
	l := r.line
	styles := m.theme.Styles()

	bgColor := m.theme.Background
	if i == m.cursor {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)

	active := l.N == m.activeMatchLine()
	gutter := styles.FaintText
	switch {
	case active:
		gutter = styles.WarningText.Bold(true)
	case len(m.engine.Index().Spans(l.N)) > 0:
		gutter = styles.AccentText
	}

	var b strings.Builder
	b.WriteString(bg.Render(fmt.Sprintf("%5d │ ", l.N+1), gutter))
	if m.prefs.ShowTimes && l.HasTS {
		b.WriteString(bg.Render(formatTS(l.TS), styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Spaces(2 * r.depth))

	base := styles.Text
	if l.Group != nil {
		marker := "▸ "
		if m.expanded[l.N] {
			marker = "▾ "
		}
		b.WriteString(bg.Render(marker, styles.AccentText))
		base = base.Bold(true)
	}

	switch l.Cmd {
	case document.CmdNone, document.CmdGroup:
	case document.CmdCommand:
		base = base.Foreground(lipgloss.Color(styles.CommandColor(l.Cmd)))
	default:
		b.WriteString(styles.BadgeStyle(l.Cmd).Render(l.Cmd.String()))
		b.WriteString(bg.Space())
		if l.Cmd == document.CmdError || l.Cmd == document.CmdWarning {
			base = base.Foreground(lipgloss.Color(styles.CommandColor(l.Cmd)))
		}
	}

	b.WriteString(m.renderElements(m.engine.Highlight(l), base, bgColor, active))

	if l.Group != nil && !m.expanded[l.N] {
		hint := fmt.Sprintf(" (%d lines)", len(l.Group.Children))
		if !l.Group.Ended {
			hint = fmt.Sprintf(" (%d lines, unterminated)", len(l.Group.Children))
		}
		b.WriteString(bg.Render(hint, styles.FaintText))
	}

	return bg.FitLine(b.String(), m.width)
}

// renderElements renders elements on bg. Links are emitted as OSC 8
// hyperlinks around their children. Links never nest, so the recursion is
// one level deep.
func (m Model) renderElements(elems []document.Element, base lipgloss.Style, bg string, active bool) string {
	var b strings.Builder
	for _, e := range elems {
		if e.Kind == document.KindLink {
			link := base.Underline(true).Foreground(lipgloss.Color(m.theme.Accent))
			b.WriteString(ansi.SetHyperlink(e.Href))
			b.WriteString(m.renderElements(e.Children, link, bg, active))
			b.WriteString(ansi.ResetHyperlink())
			continue
		}
		if e.Text == "" {
			continue
		}
		b.WriteString(m.elementStyle(e.Styles, base, bg, active).Render(printable(e.Text)))
	}
	return b.String()
}

// elementStyle layers an element's own styles over base. Search highlights
// replace the background but keep the element's flags.
func (m Model) elementStyle(st document.Styles, base lipgloss.Style, bg string, active bool) lipgloss.Style {
	s := base.Background(lipgloss.Color(bg))
	if st.Bold {
		s = s.Bold(true)
	}
	if st.Italic {
		s = s.Italic(true)
	}
	if st.Underline {
		s = s.Underline(true)
	}
	if c := m.theme.Color(st.Fg); c != "" {
		s = s.Foreground(lipgloss.Color(c))
	}
	if c := m.theme.Color(st.Bg); c != "" {
		s = s.Background(lipgloss.Color(c))
	}
	if st.Highlight {
		if active {
			s = s.Background(lipgloss.Color(m.theme.ActiveMatchBg)).
				Foreground(lipgloss.Color(m.theme.Background))
		} else {
			s = s.Background(lipgloss.Color(m.theme.MatchBg))
		}
	}
	return s
}

// printable replaces control characters left in content (such as the ESC of
// an unterminated sequence) with their Unicode control pictures.
func printable(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == 0x7f:
			return '␡'
		case isControl(r):
			return 0x2400 + r
		default:
			return r
		}
	}, s)
}

func isControl(r rune) bool {
	return (r < 0x20 && r != '\t') || r == 0x7f
}

func formatTS(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("15:04:05")
}
