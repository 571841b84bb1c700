package annotation

import (
	"testing"

	"github.com/five82/runlog/internal/document"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ts   bool
		want Result
	}{
		{
			name: "plain",
			raw:  "hello world",
			ts:   true,
			want: Result{Rest: "hello world"},
		},
		{
			name: "error marker",
			raw:  "##[error]Something broke",
			ts:   true,
			want: Result{Cmd: document.CmdError, Rest: "Something broke"},
		},
		{
			name: "timestamp and group",
			raw:  "2024-01-15T00:14:49.2830954Z ##[group]Operating System",
			ts:   true,
			want: Result{TS: 1705277689283, HasTS: true, Cmd: document.CmdGroup, Rest: "Operating System"},
		},
		{
			name: "timestamp only",
			raw:  "2024-01-15T00:14:43.5805748Z Requested labels: ubuntu-latest",
			ts:   true,
			want: Result{TS: 1705277683580, HasTS: true, Rest: "Requested labels: ubuntu-latest"},
		},
		{
			name: "timestamps disabled",
			raw:  "2024-01-15T00:14:43.5805748Z ##[debug]x",
			ts:   false,
			want: Result{Rest: "2024-01-15T00:14:43.5805748Z ##[debug]x"},
		},
		{
			name: "bare command echo",
			raw:  "[command]/usr/bin/git version",
			ts:   true,
			want: Result{Cmd: document.CmdCommand, Rest: "/usr/bin/git version"},
		},
		{
			name: "endgroup",
			raw:  "##[endgroup]",
			ts:   true,
			want: Result{Cmd: document.CmdEndGroup, Rest: ""},
		},
		{
			name: "unknown keyword keeps text",
			raw:  "##[fatal]oops",
			ts:   true,
			want: Result{Rest: "##[fatal]oops"},
		},
		{
			name: "keyword is case sensitive",
			raw:  "[INFO] starting",
			ts:   true,
			want: Result{Rest: "[INFO] starting"},
		},
		{
			name: "unclosed marker",
			raw:  "##[warning no bracket",
			ts:   true,
			want: Result{Rest: "##[warning no bracket"},
		},
		{
			name: "single hash is not a marker",
			raw:  "#[group]some group",
			ts:   true,
			want: Result{Rest: "#[group]some group"},
		},
		{
			name: "not a timestamp",
			raw:  "2024 was a year",
			ts:   true,
			want: Result{Rest: "2024 was a year"},
		},
		{
			name: "timestamp without content",
			raw:  "2024-01-15T00:14:43Z ",
			ts:   true,
			want: Result{TS: 1705277683000, HasTS: true, Rest: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw, tt.ts); got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
