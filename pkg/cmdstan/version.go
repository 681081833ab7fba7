package cmdstan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	manifestName = "makefile"
	versionKey   = "CMDSTAN_VERSION"
)

var rcSuffix = regexp.MustCompile(`-rc[0-9]+$`)

// ManifestPath returns the location of an installation's build manifest.
func ManifestPath(dir string) string {
	return filepath.Join(dir, manifestName)
}

// ReadVersion extracts the toolchain version declared in an installation's
// build manifest, the value of the CMDSTAN_VERSION key. A missing manifest
// yields an InvalidInstallationError (the directory may still be usable); a
// manifest without the key yields a CorruptInstallationError.
func ReadVersion(dir string) (string, error) {
	contents, err := os.ReadFile(ManifestPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &InvalidInstallationError{Dir: dir}
		}
		return "", fmt.Errorf("read build manifest: %w", err)
	}

	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, versionKey) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, versionKey))
		if !strings.HasPrefix(rest, ":=") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(rest, ":="))
		if value == "" {
			return "", &CorruptInstallationError{Dir: dir}
		}
		return value, nil
	}

	return "", &CorruptInstallationError{Dir: dir}
}

// normalizeTag converts a directory version tag into the canonical form the
// semver package expects.
func normalizeTag(tag string) string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

// compareTags orders two version tags: positive when a ranks above b.
// Semver mode parses major.minor.patch and ranks a release candidate below
// its corresponding stable release; tags that do not parse sink below tags
// that do. Lexicographic mode reproduces a plain descending string sort of
// the directory names.
func compareTags(a, b string, mode RankingMode) int {
	if mode == RankLexicographic {
		return strings.Compare(a, b)
	}

	av, bv := normalizeTag(a), normalizeTag(b)
	switch {
	case semver.IsValid(av) && semver.IsValid(bv):
		if c := semver.Compare(av, bv); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case semver.IsValid(av):
		return 1
	case semver.IsValid(bv):
		return -1
	default:
		return strings.Compare(a, b)
	}
}
