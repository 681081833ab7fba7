// Package watch monitors the install root and emits debounced snapshots of
// the installations found there. Events within the debounce window coalesce
// so a burst of filesystem activity produces a single rescan.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"stanctl/pkg/cmdstan"
)

// defaultDebounce is the quiet period after the last filesystem event before
// a rescan fires. An install or removal touches many paths in quick
// succession; the window collapses them into one snapshot.
const defaultDebounce = 400 * time.Millisecond

// Snapshot is one observation of the install root. A root with no
// installations is a valid observation, not an error.
type Snapshot struct {
	Installations []cmdstan.Installation
	At            time.Time
	Err           error
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Root is the install root to monitor. It must exist.
	Root string

	// Ranking orders the installations in each snapshot.
	Ranking cmdstan.RankingMode

	// Debounce is the settle delay after the last event before rescanning.
	// Zero or negative values fall back to defaultDebounce.
	Debounce time.Duration
}

// Watcher monitors the install root and delivers snapshots. Run must be
// called exactly once; calling it a second time returns an error.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	debounce time.Duration
	snaps    chan Snapshot
	started  atomic.Bool
}

// New creates a Watcher over cfg.Root. The root itself is registered with
// fsnotify; installation directories appear and disappear as direct children
// so no recursive walk is needed.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(cfg.Root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch install root %s: %w", cfg.Root, err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		debounce: debounce,
		snaps:    make(chan Snapshot, 1),
	}, nil
}

// Snapshots returns the channel snapshots are delivered on. Delivery stops
// once Run returns; the channel is never closed.
func (w *Watcher) Snapshots() <-chan Snapshot {
	return w.snaps
}

// Run blocks until ctx is cancelled, emitting an initial snapshot and then
// one per settled burst of filesystem events. It returns nil on clean
// context cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	defer func() {
		_ = w.fsw.Close()
	}()

	w.emit(ctx, w.scan())

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			// Permission churn alone never changes the install set.
			if evt.Op == fsnotify.Chmod {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.emit(ctx, w.scan())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			w.emit(ctx, Snapshot{At: time.Now(), Err: err})
		}
	}
}

// scan reads the install root. ErrNoInstallations maps to an empty snapshot
// since an emptied root is exactly what a watcher reports on.
func (w *Watcher) scan() Snapshot {
	installs, err := cmdstan.Discover(w.cfg.Root, w.cfg.Ranking)
	if errors.Is(err, cmdstan.ErrNoInstallations) {
		installs, err = nil, nil
	}
	return Snapshot{Installations: installs, At: time.Now(), Err: err}
}

func (w *Watcher) emit(ctx context.Context, snap Snapshot) {
	select {
	case w.snaps <- snap:
	case <-ctx.Done():
	}
}
