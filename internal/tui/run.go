package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"stanctl/internal/watch"
)

// RunWatch creates a bubbletea program around model and bridges watcher
// snapshots into it until ctx is cancelled or the user quits. It blocks
// until the program exits.
func RunWatch(ctx context.Context, out io.Writer, model WatchModel, snaps <-chan watch.Snapshot) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		for {
			select {
			case <-ctx.Done():
				// Send is safe after the program stops; it becomes a no-op.
				p.Send(WatchClosedMsg{})
				return
			case snap := <-snaps:
				p.Send(SnapshotMsg(snap))
			}
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(WatchModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
