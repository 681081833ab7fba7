package cmdstan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Logger receives progress and warning messages from the resolver.
type Logger interface {
	Printf(format string, args ...any)
}

// Source records how the active path was chosen.
type Source string

const (
	SourceUnset    Source = ""
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceConfig   Source = "config"
	SourceDefault  Source = "default"
)

// envPath pre-populates the resolver when set at construction time.
const envPath = "CMDSTAN"

// Options configures a Resolver.
type Options struct {
	// Root is the install root to scan; empty means DefaultInstallRoot().
	Root string
	// Path pre-populates the active path at construction when $CMDSTAN is
	// unset. PathSource labels its provenance (SourceConfig for a pinned
	// config path) and defaults to SourceExplicit.
	Path       string
	PathSource Source
	// Ranking selects the discovery ordering; empty means RankSemver.
	Ranking RankingMode
	Logger  Logger
}

// Resolver holds the active toolchain path and its lazily resolved version
// for one logical session. It is not safe for concurrent use: the state is
// deliberately unsynchronized, matching the single-session model it serves.
type Resolver struct {
	root    string
	ranking RankingMode
	logger  Logger

	path    string
	version string
	source  Source
	scratch string

	// autoTried records that the lazy default discovery already ran, so it
	// runs at most once per resolver.
	autoTried bool
}

// New builds a Resolver and runs the startup hook once: $CMDSTAN, or
// otherwise a non-empty opts.Path, pre-populates the active path. A failed
// pre-population is logged as a warning and the resolver starts
// unconfigured, leaving the lazy default discovery to the first use.
func New(opts Options) (*Resolver, error) {
	root := opts.Root
	if root == "" {
		var err error
		root, err = DefaultInstallRoot()
		if err != nil {
			return nil, err
		}
	}

	ranking := opts.Ranking
	if ranking == "" {
		ranking = RankSemver
	}

	r := &Resolver{root: root, ranking: ranking, logger: opts.Logger}

	if env := strings.TrimSpace(os.Getenv(envPath)); env != "" {
		if _, err := r.setPath(env, SourceEnv); err != nil {
			r.logf("warning: ignoring %s: %v", envPath, err)
		}
	} else if opts.Path != "" {
		source := opts.PathSource
		if source == SourceUnset {
			source = SourceExplicit
		}
		if _, err := r.setPath(opts.Path, source); err != nil {
			r.logf("warning: ignoring configured path: %v", err)
		}
	}

	return r, nil
}

// SetPath makes path the active installation and eagerly resolves its
// version. An empty path delegates to the default preferred path. The
// attempted path is returned even on failure so callers can report it; any
// failure leaves the previous state untouched.
func (r *Resolver) SetPath(path string) (string, error) {
	return r.setPath(path, SourceExplicit)
}

func (r *Resolver) setPath(path string, source Source) (string, error) {
	if path == "" {
		discovered, err := DefaultPath(r.root, r.ranking)
		if err != nil {
			return "", err
		}
		path = discovered
		if source == SourceExplicit {
			source = SourceDefault
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, fmt.Errorf("resolve path: %w", err)
	}

	exists, err := dirExists(abs)
	if err != nil {
		return abs, fmt.Errorf("stat path: %w", err)
	}
	if !exists {
		r.logf("warning: cmdstan path does not exist: %s", abs)
		return abs, &PathNotFoundError{Path: abs}
	}

	version, err := ReadVersion(abs)
	if err != nil {
		var invalid *InvalidInstallationError
		if !errors.As(err, &invalid) {
			return abs, err
		}
		r.logf("warning: %v, version unknown", err)
		version = ""
	}

	r.path = abs
	r.version = version
	r.source = source
	if version != "" {
		r.logf("cmdstan path set to %s (version %s)", abs, version)
	} else {
		r.logf("cmdstan path set to %s", abs)
	}
	return abs, nil
}

// Path returns the active installation path. The first call on an
// unconfigured resolver runs the default discovery once; after that a
// missing version is recomputed lazily, without re-validating that the
// path still exists.
func (r *Resolver) Path() (string, error) {
	r.ensureDefault()
	if r.path == "" {
		return "", ErrNotConfigured
	}

	if r.version == "" {
		version, err := ReadVersion(r.path)
		if err != nil {
			var invalid *InvalidInstallationError
			if !errors.As(err, &invalid) {
				return "", err
			}
			r.logf("warning: %v", err)
		} else {
			r.version = version
		}
	}

	return r.path, nil
}

// Version returns the cached toolchain version. It fails when no path is
// configured or when the version is unknown because the installation has
// no readable build manifest.
func (r *Resolver) Version() (string, error) {
	r.ensureDefault()
	if r.path == "" {
		return "", ErrNotConfigured
	}
	if r.version == "" {
		return "", fmt.Errorf("version unknown for %s: %w", r.path, ErrNotConfigured)
	}
	return r.version, nil
}

// KnownVersion reports the cached version without failing: absent versions
// return false.
func (r *Resolver) KnownVersion() (string, bool) {
	r.ensureDefault()
	if r.path == "" || r.version == "" {
		return "", false
	}
	return r.version, true
}

// DefaultPreferredPath reports what discovery would choose right now. It
// does not touch resolver state.
func (r *Resolver) DefaultPreferredPath() (string, error) {
	return DefaultPath(r.root, r.ranking)
}

// InstallRoot returns the root this resolver scans.
func (r *Resolver) InstallRoot() string { return r.root }

// Ranking returns the discovery ordering in use.
func (r *Resolver) Ranking() RankingMode { return r.ranking }

// PathSource reports how the active path was chosen.
func (r *Resolver) PathSource() Source { return r.source }

// Reset clears the active path and version without touching the scratch
// directory. Diagnostic and test use; the lazy default discovery is armed
// again afterwards.
func (r *Resolver) Reset() {
	r.path = ""
	r.version = ""
	r.source = SourceUnset
	r.autoTried = false
}

// ScratchDir returns the session scratch directory, if one was provided.
func (r *Resolver) ScratchDir() string { return r.scratch }

// SetScratchDir records the session scratch directory provisioned by the
// caller. The resolver never creates or removes it.
func (r *Resolver) SetScratchDir(dir string) { r.scratch = dir }

// ensureDefault runs the lazy default discovery at most once per resolver.
func (r *Resolver) ensureDefault() {
	if r.path != "" || r.autoTried {
		return
	}
	r.autoTried = true
	if _, err := r.setPath("", SourceDefault); err != nil && !errors.Is(err, ErrNoInstallations) {
		r.logf("warning: default discovery: %v", err)
	}
}

func (r *Resolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
