// Package document defines the parsed form of a CI log and its JSON
// encoding.
//
// A Document is an ordered list of root Lines. A Line carries its sequence
// number, an optional timestamp and workflow Command, its Elements, and, for
// group markers, a Group holding the folded child lines.
//
// # Elements
//
// Element is a closed tagged variant. Kind selects which fields are in use:
//
//   - KindText: plain text.
//   - KindStyled: text with Styles (bold, italic, underline, highlight,
//     foreground and background Color).
//   - KindLink: an Href with child elements.
//
// Colors are either one of the 16 palette entries, named by a fixed table,
// or an RGB triple.
//
// # JSON
//
// Marshal writes the document as JSON, compact or indented:
//
//	[{"n":0,"ts":1705277683580,"cmd":8,"elements":["Setup"],"group":{"ended":true,"children":[...]}}]
//
// Plain elements encode as strings, styled elements as
// {"content":...,"styles":{...}}, links as {"href":...,"children":[...]}.
// Absent optional fields are omitted. A Highlighter passed to Marshal can
// replace the elements of each line at write time; the search index uses
// this to overlay matches without touching the document.
//
// Walk and Marshal keep explicit stacks, so deeply nested groups never grow
// the goroutine stack.
package document
