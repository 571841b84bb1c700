// Package app wires runlog's pieces together for the two commands.
//
// Parse is the one-shot path used by "runlog parse": read the input
// through logtail or remote (file, stdin or URL, optionally compressed,
// optionally tailed),
// run it through an engine with the configured style scope and timestamp
// handling, and write JSON or a match count.
//
// Run is the interactive path used by "runlog view":
//
//	Run()
//	 ├─> config.Load()     config.toml, flags already merged by the caller
//	 ├─> prefs.Load()      theme and timestamp toggle
//	 ├─> refresh()         first read seeds the state.Store; failure is fatal
//	 ├─> StartPoller()     only with --follow
//	 └─> ui.Run()          blocks until quit or ctx is cancelled
//
// # Follow mode
//
// The poller re-reads the file or URL every poll interval and hashes it with
// BLAKE3; the store's version advances only when the digest changes, so the
// viewer reparses only real changes. A failed read is recorded in the store
// and the next wait doubles, from the poll interval up to 30 seconds. The
// first success resets it.
//
// While the viewer owns the terminal the default slog logger is replaced by
// one that discards, so poller warnings cannot corrupt the screen.
package app
