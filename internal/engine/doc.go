// Package engine parses CI log text into a searchable document.
//
// An Engine is one session. Its four operations are:
//
//   - SetRaw: replace the log text. The text is reparsed from scratch and the
//     current search term is applied to the result.
//   - SetSearch: replace the search term. Only the search index is rebuilt.
//   - Matches: the number of case-insensitive matches of the term.
//   - Stringify: the document as JSON, compact or indented, with matches
//     highlighted.
//
// Parsing never fails. Unknown escape codes are ignored, unknown command
// keywords leave a line plain, and unbalanced group markers leave groups
// open. The only error is input that is not valid UTF-8, reported by SetRaw
// as a *DecodeError matching ErrInvalidText; the previous document is kept.
//
// Each operation runs synchronously and in time linear in the input. Group
// nesting is handled with explicit stacks throughout, so any depth of
// nesting is safe.
package engine
