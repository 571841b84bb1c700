// Package annotation recognizes runner timestamps and workflow command
// markers at the start of a log line.
//
// A line looks like
//
//	2024-01-15T00:14:49.2830954Z ##[group]Operating System
//
// where both the timestamp and the marker are optional. Markers use the
// "##[keyword]" form or the bare "[keyword]" form runners print for command
// echoes. Keywords are matched exactly; an unknown keyword leaves the line
// without a command and keeps its text intact.
package annotation

import (
	"strings"
	"time"

	"github.com/five82/runlog/internal/document"
)

// Result is the annotation found on one line.
type Result struct {
	TS    int64 // Unix milliseconds, valid when HasTS
	HasTS bool
	Cmd   document.Command
	// Rest is the line content after the timestamp and marker.
	Rest string
}

const (
	markerPrefix = "##["
	barePrefix   = "["
	// shortest accepted timestamp: 2006-01-02T15:04:05Z
	minTimestampLen = len("2006-01-02T15:04:05Z")
)

// Parse splits the annotation off raw. With timestamps false a leading
// timestamp is left in the content.
func Parse(raw string, timestamps bool) Result {
	res := Result{Rest: raw}
	if timestamps {
		if ms, rest, ok := cutTimestamp(raw); ok {
			res.TS, res.HasTS, res.Rest = ms, true, rest
		}
	}
	if cmd, rest, ok := cutMarker(res.Rest); ok {
		res.Cmd, res.Rest = cmd, rest
	}
	return res
}

// cutTimestamp consumes an RFC 3339 token and the single space after it.
func cutTimestamp(s string) (int64, string, bool) {
	if len(s) < minTimestampLen || s[0] < '0' || s[0] > '9' {
		return 0, s, false
	}
	tok, rest, found := strings.Cut(s, " ")
	if !found || len(tok) < minTimestampLen {
		return 0, s, false
	}
	ts, err := time.Parse(time.RFC3339Nano, tok)
	if err != nil {
		return 0, s, false
	}
	return ts.UnixMilli(), rest, true
}

func cutMarker(s string) (document.Command, string, bool) {
	var body string
	switch {
	case strings.HasPrefix(s, markerPrefix):
		body = s[len(markerPrefix):]
	case strings.HasPrefix(s, barePrefix):
		body = s[len(barePrefix):]
	default:
		return document.CmdNone, s, false
	}
	keyword, rest, found := strings.Cut(body, "]")
	if !found {
		return document.CmdNone, s, false
	}
	cmd, ok := document.LookupCommand(keyword)
	if !ok {
		return document.CmdNone, s, false
	}
	return cmd, rest, true
}
