// Package logtail reads CI log text from files or standard input.
//
// Compressed inputs are recognized by their leading magic number, not by
// file extension:
//
//	1f 8b          gzip  (klauspost/compress/gzip)
//	28 b5 2f fd    zstd  (klauspost/compress/zstd)
//	04 22 4d 18    lz4   (pierrec/lz4/v4 frame format)
//
// Anything else is passed through unchanged.
//
// # Tail
//
// With a positive line limit, ReadAll keeps a ring buffer of the last N
// lines while scanning the stream once, so memory is bounded by the kept
// lines rather than the input size. Kept lines are joined with "\n" and lose
// any "\r" before the line break.
//
// Bytes are returned as read. UTF-8 validation belongs to the engine, which
// reports the offset of the first invalid byte.
package logtail
