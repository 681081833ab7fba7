package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	clog "github.com/charmbracelet/log"

	"stanctl/internal/paths"
)

// Printer is the minimal sink shared by the file and stderr loggers.
type Printer interface {
	Printf(format string, args ...any)
}

// New creates a logger that writes to a timestamped file inside the install
// root's logs directory. The returned closer should be closed when logging
// is no longer needed.
func New(p paths.AppPaths) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(p.LogsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger, file, nil
}

// Stderr returns the user-facing logger. It prints to stderr with
// timestamps enabled; verbose lowers the level to debug.
func Stderr(verbose bool) *clog.Logger {
	opts := clog.Options{
		ReportTimestamp: true,
	}
	if verbose {
		opts.Level = clog.DebugLevel
	}
	return clog.NewWithOptions(os.Stderr, opts)
}

// Tee fans log lines out to every destination. Nil destinations are
// skipped so callers can pass optional sinks directly.
func Tee(dest ...Printer) Printer {
	var active []Printer
	for _, d := range dest {
		if d != nil {
			active = append(active, d)
		}
	}
	return multi(active)
}

type multi []Printer

func (m multi) Printf(format string, args ...any) {
	for _, p := range m {
		p.Printf(format, args...)
	}
}
