package links

import (
	"reflect"
	"testing"

	"github.com/five82/runlog/internal/document"
	"github.com/five82/runlog/internal/sgr"
)

func tokens(line string) sgr.Tokens {
	var st sgr.State
	return sgr.Tokenize(line, &st)
}

func TestSplit(t *testing.T) {
	bold := document.Styles{Bold: true}
	tests := []struct {
		name string
		line string
		want []document.Element
	}{
		{
			name: "no url",
			line: "nothing to see",
			want: []document.Element{document.Text("nothing to see")},
		},
		{
			name: "url in the middle",
			line: "see http://x.test now",
			want: []document.Element{
				document.Text("see "),
				document.Link("http://x.test", []document.Element{document.Text("http://x.test")}),
				document.Text(" now"),
			},
		},
		{
			name: "url at the end",
			line: "Image Release: https://github.com/actions/runner-images/releases/tag/ubuntu22%2F20240107.1",
			want: []document.Element{
				document.Text("Image Release: "),
				document.Link("https://github.com/actions/runner-images/releases/tag/ubuntu22%2F20240107.1", []document.Element{
					document.Text("https://github.com/actions/runner-images/releases/tag/ubuntu22%2F20240107.1"),
				}),
			},
		},
		{
			name: "two urls",
			line: "a https://a.test b https://b.test",
			want: []document.Element{
				document.Text("a "),
				document.Link("https://a.test", []document.Element{document.Text("https://a.test")}),
				document.Text(" b "),
				document.Link("https://b.test", []document.Element{document.Text("https://b.test")}),
			},
		},
		{
			name: "styled url split across runs",
			line: "\x1b[1mhttp://a.test\x1b[0m/path done",
			want: []document.Element{
				document.Link("http://a.test/path", []document.Element{
					document.Styled("http://a.test", bold),
					document.Text("/path"),
				}),
				document.Text(" done"),
			},
		},
		{
			name: "styled run containing url",
			line: "\x1b[1mgo https://reb.gg now\x1b[0m",
			want: []document.Element{
				document.Styled("go ", bold),
				document.Link("https://reb.gg", []document.Element{document.Styled("https://reb.gg", bold)}),
				document.Styled(" now", bold),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tokens(tt.line))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Split(%q) =\n%+v\nwant\n%+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	got := Find("foo https://reb.gg bar")
	want := [][]int{{4, 18}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
	if got := Find("no scheme here example.com"); got != nil {
		t.Fatalf("Find without scheme = %v, want nil", got)
	}
}
