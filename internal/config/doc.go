// Package config loads runlog's TOML configuration.
//
// # Resolution
//
//  1. If a path is given, use it.
//  2. Otherwise use ~/.config/runlog/config.toml.
//  3. A missing file yields Default().
//  4. Missing or empty fields keep their defaults.
//
// Invalid values (an unknown style scope or color mode, malformed TOML) are
// errors; the CLI reports them and exits.
//
// # Fields
//
//	style_scope = "line"          # "document" keeps escape-code styling across lines
//	timestamps = true             # parse leading RFC 3339 timestamps
//	pretty = false                # indent JSON output
//	color = "auto"                # colorize JSON: auto, always, never
//	tail_lines = 0                # keep only the last N lines; 0 keeps all
//	poll_interval_seconds = 2     # follow-mode re-read interval
//	theme = ""                    # viewer theme; prefs.toml wins when empty
//
// Command-line flags override values from the file.
package config
