package cmdstan

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by accessors that require an active path when
// none was ever set and none could be discovered.
var ErrNotConfigured = errors.New("cmdstan not configured")

// ErrNoInstallations is discovery's "none found" signal. Callers fall back
// to manual configuration when they see it.
var ErrNoInstallations = errors.New("no cmdstan installation found")

// PathNotFoundError reports a requested installation path that does not
// exist on disk. It is recoverable: prior configuration is preserved.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("cmdstan path does not exist: %s", e.Path)
}

// InvalidInstallationError reports an installation directory without a build
// manifest. The path may still be usable, so callers treat this as a
// warning and carry on with an unknown version.
type InvalidInstallationError struct {
	Dir string
}

func (e *InvalidInstallationError) Error() string {
	return fmt.Sprintf("no build manifest in %s", e.Dir)
}

// CorruptInstallationError reports a build manifest that exists but carries
// no version declaration. The installation is structurally broken and the
// error is fatal.
type CorruptInstallationError struct {
	Dir string
}

func (e *CorruptInstallationError) Error() string {
	return fmt.Sprintf("build manifest in %s declares no %s", e.Dir, versionKey)
}
