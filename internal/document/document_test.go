package document

import "testing"

func TestLookupCommand(t *testing.T) {
	tests := []struct {
		keyword string
		want    Command
		ok      bool
	}{
		{"command", CmdCommand, true},
		{"debug", CmdDebug, true},
		{"error", CmdError, true},
		{"info", CmdInfo, true},
		{"notice", CmdNotice, true},
		{"verbose", CmdVerbose, true},
		{"warning", CmdWarning, true},
		{"group", CmdGroup, true},
		{"endgroup", CmdEndGroup, true},
		{"Error", CmdNone, false},
		{"fatal", CmdNone, false},
		{"", CmdNone, false},
	}
	for _, tt := range tests {
		got, ok := LookupCommand(tt.keyword)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupCommand(%q) = %v, %v, want %v, %v", tt.keyword, got, ok, tt.want, tt.ok)
		}
		if tt.ok && got.String() != tt.keyword {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.keyword)
		}
	}
}

func TestPaletteNames(t *testing.T) {
	if got := Palette(1).Name(); got != "red" {
		t.Fatalf("Palette(1).Name() = %q, want red", got)
	}
	if got := Palette(14).Name(); got != "brightCyan" {
		t.Fatalf("Palette(14).Name() = %q, want brightCyan", got)
	}
	if got := RGB(1, 2, 3).Name(); got != "" {
		t.Fatalf("RGB name = %q, want empty", got)
	}
	if !(Color{}).IsZero() || Palette(0).IsZero() {
		t.Fatalf("IsZero mismatch: palette black must not be absent")
	}
}

func TestContent(t *testing.T) {
	elems := []Element{
		Text("see "),
		Link("http://x.test", []Element{Text("http://"), Styled("x.test", Styles{Bold: true})}),
		Text(" now"),
	}
	if got := Content(elems); got != "see http://x.test now" {
		t.Fatalf("Content = %q", got)
	}
	if got := Content(nil); got != "" {
		t.Fatalf("Content(nil) = %q", got)
	}
}

func TestWalk_OrderAndSkip(t *testing.T) {
	doc := Document{
		{N: 0, Group: &Group{Children: []Line{
			{N: 1},
			{N: 2, Group: &Group{Children: []Line{{N: 3}}}},
		}}},
		{N: 4},
	}

	var order []int
	var depths []int
	Walk(doc, func(l *Line, depth int) bool {
		order = append(order, l.N)
		depths = append(depths, depth)
		return true
	})
	wantOrder := []int{0, 1, 2, 3, 4}
	wantDepth := []int{0, 1, 1, 2, 0}
	for i := range wantOrder {
		if order[i] != wantOrder[i] || depths[i] != wantDepth[i] {
			t.Fatalf("Walk order = %v depths = %v, want %v %v", order, depths, wantOrder, wantDepth)
		}
	}

	var visited []int
	Walk(doc, func(l *Line, _ int) bool {
		visited = append(visited, l.N)
		return l.N != 2
	})
	if len(visited) != 4 {
		t.Fatalf("Walk with skip visited %v, want 4 lines", visited)
	}

	if got := doc.Len(); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}
}
