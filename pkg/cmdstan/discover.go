package cmdstan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const dirPrefix = "cmdstan"

// envInstallDir overrides the default install root when set.
const envInstallDir = "STANCTL_INSTALL_DIR"

// RankingMode selects how discovery orders candidate installations.
type RankingMode string

const (
	// RankSemver compares parsed versions; the default.
	RankSemver RankingMode = "semver"
	// RankLexicographic reproduces the historical whole-name reverse sort,
	// under which cmdstan-2.9.0 outranks cmdstan-2.10.0.
	RankLexicographic RankingMode = "lexicographic"
)

// Installation describes one toolchain directory under the install root.
type Installation struct {
	Name             string `json:"name"`
	Path             string `json:"path"`
	Tag              string `json:"tag,omitempty"`
	Version          string `json:"version,omitempty"`
	ReleaseCandidate bool   `json:"release_candidate"`
	Legacy           bool   `json:"legacy"`
	Valid            bool   `json:"valid"`
	Problem          string `json:"problem,omitempty"`
}

// DefaultInstallRoot returns the conventional directory for toolchain
// installs: $STANCTL_INSTALL_DIR when set, otherwise <home>/.stanctl.
func DefaultInstallRoot() (string, error) {
	if override, ok := os.LookupEnv(envInstallDir); ok && override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", envInstallDir, err)
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, ".stanctl"), nil
}

// Discover lists the toolchain installations under root, ranked best first.
// It is a pure query: the install tree is never mutated. ErrNoInstallations
// is returned when the root is missing or holds no candidates.
func Discover(root string, mode RankingMode) ([]Installation, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoInstallations
		}
		return nil, fmt.Errorf("read install root: %w", err)
	}

	var installs []Installation
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name != dirPrefix && !strings.HasPrefix(name, dirPrefix+"-") {
			continue
		}
		installs = append(installs, inspect(root, name))
	}
	if len(installs) == 0 {
		return nil, ErrNoInstallations
	}

	rank(installs, mode)
	return installs, nil
}

// DefaultPath returns the preferred installation under root: the highest
// ranked candidate, except that a release candidate yields to its exact
// stable counterpart when both are installed. Release candidates are never
// demoted by unrelated stable versions.
func DefaultPath(root string, mode RankingMode) (string, error) {
	installs, err := Discover(root, mode)
	if err != nil {
		return "", err
	}
	best, _ := Preferred(installs)
	return best.Path, nil
}

// Preferred picks the installation DefaultPath would choose from an already
// ranked list: the first candidate, unless it is a release candidate whose
// exact stable counterpart is also present.
func Preferred(installs []Installation) (Installation, bool) {
	if len(installs) == 0 {
		return Installation{}, false
	}

	best := installs[0]
	if best.ReleaseCandidate {
		stable := rcSuffix.ReplaceAllString(best.Tag, "")
		for _, inst := range installs {
			if inst.Tag == stable {
				return inst, true
			}
		}
	}
	return best, true
}

// inspect fills in the Installation fields for one directory. The legacy
// bare directory carries no tag in its name, so its manifest version serves
// as the ranking tag, matching how it would rank after a repair rename.
func inspect(root, name string) Installation {
	inst := Installation{
		Name:   name,
		Path:   filepath.Join(root, name),
		Legacy: name == dirPrefix,
	}
	if !inst.Legacy {
		inst.Tag = strings.TrimPrefix(name, dirPrefix+"-")
	}

	version, err := ReadVersion(inst.Path)
	if err != nil {
		inst.Problem = err.Error()
	} else {
		inst.Version = version
		inst.Valid = true
		if inst.Legacy {
			inst.Tag = version
		}
	}

	inst.ReleaseCandidate = rcSuffix.MatchString(inst.Tag)
	return inst
}

// rank orders installations best first. Candidates without a usable tag (a
// legacy directory whose manifest cannot be read) sink to the bottom; name
// order breaks ties.
func rank(installs []Installation, mode RankingMode) {
	sort.SliceStable(installs, func(i, j int) bool {
		a, b := installs[i], installs[j]
		if (a.Tag == "") != (b.Tag == "") {
			return b.Tag == ""
		}
		if c := compareTags(a.Tag, b.Tag, mode); c != 0 {
			return c > 0
		}
		return a.Name > b.Name
	})
}
