// Package links turns URL-shaped substrings of a line into link elements.
package links

import (
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/five82/runlog/internal/document"
	"github.com/five82/runlog/internal/sgr"
)

// schemePattern accepts any scheme followed by "://".
const schemePattern = `[a-zA-Z][a-zA-Z0-9.+\-]*://`

var urlPattern = mustPattern()

func mustPattern() *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(schemePattern)
	if err != nil {
		panic("links: compile url pattern: " + err.Error())
	}
	return re
}

// Find returns the byte ranges of URLs in content.
func Find(content string) [][]int {
	if !strings.Contains(content, "://") {
		return nil
	}
	return urlPattern.FindAllStringIndex(content, -1)
}

// Split lays out the runs of one line as elements. Each URL becomes a link
// whose href is the matched text and whose children are the runs it covers,
// so a URL that changes style midway keeps both styles.
func Split(tok sgr.Tokens) []document.Element {
	locs := Find(tok.Content)
	if len(locs) == 0 {
		out := make([]document.Element, 0, len(tok.Runs))
		for _, r := range tok.Runs {
			out = append(out, document.Styled(r.Text, r.Styles))
		}
		return out
	}

	var (
		out      []document.Element
		pos      int
		li       int
		openLink = -1
	)
	for _, r := range tok.Runs {
		start, end := pos, pos+len(r.Text)
		pos = end
		for start < end {
			for li < len(locs) && locs[li][1] <= start {
				li++
			}
			if li < len(locs) && locs[li][0] <= start {
				stop := min(end, locs[li][1])
				if openLink != li {
					href := tok.Content[locs[li][0]:locs[li][1]]
					out = append(out, document.Link(href, nil))
					openLink = li
				}
				last := &out[len(out)-1]
				last.Children = append(last.Children, document.Styled(tok.Content[start:stop], r.Styles))
				start = stop
				continue
			}
			stop := end
			if li < len(locs) && locs[li][0] < stop {
				stop = locs[li][0]
			}
			out = append(out, document.Styled(tok.Content[start:stop], r.Styles))
			start = stop
		}
	}
	return out
}
