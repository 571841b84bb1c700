package sgr

import (
	"reflect"
	"strings"
	"testing"

	"github.com/five82/runlog/internal/document"
)

func TestLines(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"\n", []string{""}},
		{"\n\n", []string{"", ""}},
	}
	for _, tt := range tests {
		if got := Lines(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Lines(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	red := document.Palette(1)
	cyan := document.Palette(6)
	tests := []struct {
		name    string
		line    string
		content string
		runs    []Run
	}{
		{
			name:    "plain",
			line:    "foo bar",
			content: "foo bar",
			runs:    []Run{{Text: "foo bar"}},
		},
		{
			name:    "empty",
			line:    "",
			content: "",
			runs:    []Run{},
		},
		{
			name:    "bold red then reset",
			line:    "\x1b[1;31mHello\x1b[0m World",
			content: "Hello World",
			runs: []Run{
				{Text: "Hello", Styles: document.Styles{Bold: true, Fg: red}},
				{Text: " World"},
			},
		},
		{
			name:    "bold cyan",
			line:    "\x1b[36;1mbold cyan\x1b[0m",
			content: "bold cyan",
			runs:    []Run{{Text: "bold cyan", Styles: document.Styles{Bold: true, Fg: cyan}}},
		},
		{
			name:    "redundant codes merge",
			line:    "a\x1b[1m\x1b[0mb\x1b[0mc",
			content: "abc",
			runs:    []Run{{Text: "abc"}},
		},
		{
			name:    "non sgr sequences stripped",
			line:    "\x1b[2Kclear\x1b]0;title\x07 done\x1b(B",
			content: "clear done",
			runs:    []Run{{Text: "clear done"}},
		},
		{
			name:    "private sgr-like sequence ignored",
			line:    "\x1b[?25mx",
			content: "x",
			runs:    []Run{{Text: "x"}},
		},
		{
			name:    "unterminated sequence kept",
			line:    "without an m:\x1b[0",
			content: "without an m:\x1b[0",
			runs:    []Run{{Text: "without an m:\x1b[0"}},
		},
		{
			name:    "lone escape kept",
			line:    "a\x1b",
			content: "a\x1b",
			runs:    []Run{{Text: "a\x1b"}},
		},
		{
			name:    "unicode text",
			line:    "\x1b[3mhéllo ✓\x1b[23m!",
			content: "héllo ✓!",
			runs: []Run{
				{Text: "héllo ✓", Styles: document.Styles{Italic: true}},
				{Text: "!"},
			},
		},
		{
			name:    "oversized value drops the sequence",
			line:    "\x1b[99999999999999999999;1mx",
			content: "x",
			runs:    []Run{{Text: "x"}},
		},
		{
			name:    "too many parameters drops the sequence",
			line:    "\x1b[" + strings.Repeat("1;", 400) + "31mx",
			content: "x",
			runs:    []Run{{Text: "x"}},
		},
		{
			name:    "colon sub-parameters",
			line:    "\x1b[1;38:2::9:8:7mx",
			content: "x",
			runs:    []Run{{Text: "x", Styles: document.Styles{Bold: true, Fg: document.RGB(9, 8, 7)}}},
		},
		{
			name:    "tab kept as text",
			line:    "a\tb",
			content: "a\tb",
			runs:    []Run{{Text: "a\tb"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st State
			got := Tokenize(tt.line, &st)
			if got.Content != tt.content {
				t.Fatalf("Content = %q, want %q", got.Content, tt.content)
			}
			if !reflect.DeepEqual(got.Runs, tt.runs) {
				t.Fatalf("Runs = %+v, want %+v", got.Runs, tt.runs)
			}
		})
	}
}

func TestTokenize_StateCarriesAcrossCalls(t *testing.T) {
	var st State
	first := Tokenize("\x1b[31mred", &st)
	if len(first.Runs) != 1 || first.Runs[0].Styles.Fg != document.Palette(1) {
		t.Fatalf("first line runs = %+v", first.Runs)
	}

	second := Tokenize("still red", &st)
	if second.Runs[0].Styles.Fg != document.Palette(1) {
		t.Fatalf("state did not carry: %+v", second.Runs)
	}

	st.Reset()
	third := Tokenize("plain", &st)
	if !third.Runs[0].Styles.IsZero() {
		t.Fatalf("state not reset: %+v", third.Runs)
	}
}
