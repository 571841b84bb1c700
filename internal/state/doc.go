// Package state shares the followed log between the background poller and
// the viewer.
//
// The poller is the only writer. It calls Update after every read with the
// bytes it read, their digest, and any error. The viewer polls Version on
// each tick. It takes a Snapshot only when the version moved and a Status
// otherwise, so an unchanged multi-megabyte log is never copied twice.
//
//	poller:  logtail.Read -> blake3 -> store.Update
//	viewer:  store.Version -> store.Snapshot -> engine.SetRaw
//
// Update on error keeps the previous contents and increments
// ConsecutiveFailures; a successful read resets it. Two or more consecutive
// failures count as offline, which the viewer shows in its status line.
//
// Snapshots own their byte slice and error value, so neither side can
// observe the other's later changes. The zero Store is ready to use.
package state
