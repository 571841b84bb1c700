// Package ui is runlog's interactive log viewer, built on Bubble Tea.
//
// The Model owns one engine.Engine and calls it only from Update, so the
// engine needs no locking. In follow mode a tick fetches the store's status
// every PollTick and the full contents only when the store's version moved;
// new contents are reparsed with SetRaw and the cursor stays on the same
// line number.
//
// # Layout
//
//	header       runlog, file name, line count, match count, follow state
//	body         one row per visible line
//	command bar  key hints, or the search input while it is open
//
// Each row is a gutter with the 1-based line number, an optional timestamp,
// indentation by group depth, a fold marker on group lines, a badge for
// severity commands, and the line's elements. Palette colors map through
// the theme's 16-color table; RGB colors pass through. Links are emitted as
// OSC 8 hyperlinks.
//
// # Groups
//
// Groups start folded. enter folds or unfolds the group under the cursor
// (or folds the enclosing one), z toggles all groups, and jumping to a
// match unfolds every group around it.
//
// # Search
//
// "/" opens the search input. Each edit calls SetSearch, so the match count
// in the header follows every keystroke. n and N move between matching
// lines; esc clears the term.
//
// Theme (T) and timestamp (t) choices are saved to prefs.toml.
package ui
