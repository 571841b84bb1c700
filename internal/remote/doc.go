// Package remote downloads CI logs over HTTP so that "runlog parse" and
// "runlog view --follow" accept a URL wherever they accept a path.
//
// Bodies go through the same decoding as local files (logtail), so a log
// served as a .gz, .zst or .lz4 artifact is decompressed by magic number.
// A bearer token from RUNLOG_TOKEN is sent when set, which is what hosted
// CI log endpoints expect.
//
// Source remembers the last ETag; the follower's repeated reads revalidate
// with If-None-Match and reuse the cached body on 304. Errors carry the URL
// without its query string or user info.
package remote
