package tui

import "stanctl/internal/watch"

// SnapshotMsg delivers a fresh install root observation.
type SnapshotMsg watch.Snapshot

// WatchClosedMsg signals that the snapshot source stopped; the TUI should quit.
type WatchClosedMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
