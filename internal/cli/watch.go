package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stanctl/internal/tui"
	"stanctl/internal/watch"
	"stanctl/pkg/cmdstan"
)

var watchNoTUI bool

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the install root for changes",
		RunE:  runWatch,
	}

	cmd.Flags().BoolVar(&watchNoTUI, "no-tui", false, "Print plain rescan lines instead of the live view")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	// A default-resolved path tracks the preferred candidate as snapshots
	// change; only env, config, or explicit selections stay pinned.
	pinned := ""
	if p, err := s.resolver.Path(); err == nil && s.resolver.PathSource() != cmdstan.SourceDefault {
		pinned = p
	}

	watcher, err := watch.New(watch.Config{
		Root:     s.paths.Root,
		Ranking:  s.cfg.RankingMode(),
		Debounce: s.cfg.Debounce(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Run(ctx) }()

	s.logger.Printf("stanctl watch: root=%s debounce=%s", s.paths.Root, s.cfg.Debounce())

	switch tui.DetectMode(cmd.OutOrStdout(), watchNoTUI, outputJSON) {
	case tui.ModeTUI:
		model := tui.NewWatchModel(s.paths.Root, pinned)
		runErr := tui.RunWatch(ctx, cmd.OutOrStdout(), model, watcher.Snapshots())
		stop()
		watchErr := <-errCh
		if runErr != nil {
			return runErr
		}
		return watchErr
	case tui.ModeJSON:
		return watchJSON(ctx, cmd.OutOrStdout(), watcher.Snapshots(), errCh)
	default:
		return watchPlain(ctx, cmd.OutOrStdout(), watcher.Snapshots(), errCh)
	}
}

func watchPlain(ctx context.Context, out io.Writer, snaps <-chan watch.Snapshot, errCh <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case snap := <-snaps:
			if snap.Err != nil {
				fmt.Fprintf(out, "%s  scan error: %v\n", snap.At.Format("15:04:05"), snap.Err)
				continue
			}
			line := fmt.Sprintf("%s  %d installations", snap.At.Format("15:04:05"), len(snap.Installations))
			if best, ok := cmdstan.Preferred(snap.Installations); ok {
				line += ", preferred " + best.Name
			}
			fmt.Fprintln(out, line)
		}
	}
}

func watchJSON(ctx context.Context, out io.Writer, snaps <-chan watch.Snapshot, errCh <-chan error) error {
	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case snap := <-snaps:
			payload := struct {
				At            string                 `json:"at"`
				Installations []cmdstan.Installation `json:"installations"`
				Error         string                 `json:"error,omitempty"`
			}{
				At:            snap.At.Format(time.RFC3339),
				Installations: snap.Installations,
			}
			if snap.Err != nil {
				payload.Error = snap.Err.Error()
			}
			if err := enc.Encode(payload); err != nil {
				return err
			}
		}
	}
}
