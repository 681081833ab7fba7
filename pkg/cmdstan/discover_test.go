package cmdstan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeInstall lays down a minimal installation directory with a build
// manifest declaring the given version.
func writeInstall(t *testing.T, root, name, version string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := "# CmdStan makefile\nCMDSTAN_VERSION := " + version + "\n"
	if err := os.WriteFile(ManifestPath(dir), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func names(installs []Installation) []string {
	out := make([]string, len(installs))
	for i, inst := range installs {
		out[i] = inst.Name
	}
	return out
}

func TestDiscoverRanksSemver(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan-2.9.0", "2.9.0")
	writeInstall(t, root, "cmdstan-2.10.0", "2.10.0")
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	installs, err := Discover(root, RankSemver)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	got := names(installs)
	want := []string{"cmdstan-2.23.0", "cmdstan-2.10.0", "cmdstan-2.9.0"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestDiscoverRanksLexicographic(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan-2.9.0", "2.9.0")
	writeInstall(t, root, "cmdstan-2.10.0", "2.10.0")
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	installs, err := Discover(root, RankLexicographic)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	// Plain string order: "2.9.0" sorts above both two-digit minors.
	got := names(installs)
	want := []string{"cmdstan-2.9.0", "cmdstan-2.23.0", "cmdstan-2.10.0"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), RankSemver)
	if !errors.Is(err, ErrNoInstallations) {
		t.Fatalf("expected ErrNoInstallations, got %v", err)
	}
}

func TestDiscoverNoCandidates(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "misc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Discover(root, RankSemver)
	if !errors.Is(err, ErrNoInstallations) {
		t.Fatalf("expected ErrNoInstallations, got %v", err)
	}
}

func TestDiscoverIgnoresUnrelatedEntries(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")
	// Prefix without the hyphen separator is not a candidate.
	if err := os.MkdirAll(filepath.Join(root, "cmdstanx"), 0o755); err != nil {
		t.Fatal(err)
	}
	// A plain file with a candidate name is skipped.
	if err := os.WriteFile(filepath.Join(root, "cmdstan-2.5.0"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	installs, err := Discover(root, RankSemver)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(installs) != 1 {
		t.Fatalf("expected 1 installation, got %d: %v", len(installs), names(installs))
	}
	if installs[0].Name != "cmdstan-2.23.0" {
		t.Fatalf("expected cmdstan-2.23.0, got %s", installs[0].Name)
	}
}

func TestDiscoverLegacyDirectory(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan", "2.20.0")
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	installs, err := Discover(root, RankSemver)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(installs) != 2 {
		t.Fatalf("expected 2 installations, got %d", len(installs))
	}
	if installs[0].Name != "cmdstan-2.23.0" {
		t.Fatalf("expected cmdstan-2.23.0 first, got %s", installs[0].Name)
	}

	legacy := installs[1]
	if !legacy.Legacy {
		t.Fatal("expected legacy flag on bare directory")
	}
	if legacy.Tag != "2.20.0" || legacy.Version != "2.20.0" {
		t.Fatalf("expected legacy tag/version 2.20.0, got %s/%s", legacy.Tag, legacy.Version)
	}
	if !legacy.Valid {
		t.Fatal("expected legacy install with manifest to be valid")
	}
}

func TestDiscoverLegacyWithoutManifestSinks(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "cmdstan"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	installs, err := Discover(root, RankSemver)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	last := installs[len(installs)-1]
	if last.Name != "cmdstan" {
		t.Fatalf("expected unreadable legacy install last, got %s", last.Name)
	}
	if last.Valid {
		t.Fatal("expected legacy install without manifest to be invalid")
	}
	if last.Problem == "" {
		t.Fatal("expected a problem description")
	}
	if last.Tag != "" {
		t.Fatalf("expected empty tag, got %s", last.Tag)
	}
}

func TestDiscoverDoesNotMutate(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan", "2.20.0")
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	before, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Discover(root, RankSemver); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if _, err := Discover(root, RankLexicographic); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	after, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != len(after) {
		t.Fatalf("expected %d entries after discovery, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name() != after[i].Name() {
			t.Fatalf("expected entry %s, got %s", before[i].Name(), after[i].Name())
		}
	}
}

func TestDefaultPathPrefersStableOverRC(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan-2.23.0-rc1", "2.23.0-rc1")
	stable := writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	for _, mode := range []RankingMode{RankSemver, RankLexicographic} {
		path, err := DefaultPath(root, mode)
		if err != nil {
			t.Fatalf("DefaultPath(%s): %v", mode, err)
		}
		if path != stable {
			t.Fatalf("expected stable path %s under %s ranking, got %s", stable, mode, path)
		}
	}
}

func TestDefaultPathRCAlone(t *testing.T) {
	root := t.TempDir()
	rc := writeInstall(t, root, "cmdstan-2.24.0-rc1", "2.24.0-rc1")

	path, err := DefaultPath(root, RankSemver)
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if path != rc {
		t.Fatalf("expected %s, got %s", rc, path)
	}
}

func TestDefaultPathRCBeatsOlderStable(t *testing.T) {
	root := t.TempDir()
	rc := writeInstall(t, root, "cmdstan-2.24.0-rc1", "2.24.0-rc1")
	writeInstall(t, root, "cmdstan-2.23.0", "2.23.0")

	path, err := DefaultPath(root, RankSemver)
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if path != rc {
		t.Fatalf("expected release candidate %s to win over unrelated stable, got %s", rc, path)
	}
}

func TestDefaultPathNoInstallations(t *testing.T) {
	_, err := DefaultPath(t.TempDir(), RankSemver)
	if !errors.Is(err, ErrNoInstallations) {
		t.Fatalf("expected ErrNoInstallations, got %v", err)
	}
}

func TestDefaultPathIdempotent(t *testing.T) {
	root := t.TempDir()
	writeInstall(t, root, "cmdstan-2.35.0", "2.35.0")
	writeInstall(t, root, "cmdstan-2.36.0", "2.36.0")

	first, err := DefaultPath(root, RankSemver)
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	second, err := DefaultPath(root, RankSemver)
	if err != nil {
		t.Fatalf("DefaultPath (repeat): %v", err)
	}
	if first != second {
		t.Fatalf("expected stable result across calls, got %s then %s", first, second)
	}
}

func TestPreferredEmpty(t *testing.T) {
	if _, ok := Preferred(nil); ok {
		t.Fatal("expected no preference from empty list")
	}
}

func TestPreferredRCCounterpart(t *testing.T) {
	installs := []Installation{
		{Name: "cmdstan-2.23.0-rc2", Tag: "2.23.0-rc2", ReleaseCandidate: true},
		{Name: "cmdstan-2.23.0", Tag: "2.23.0"},
		{Name: "cmdstan-2.22.0", Tag: "2.22.0"},
	}

	best, ok := Preferred(installs)
	if !ok {
		t.Fatal("expected a preference")
	}
	if best.Name != "cmdstan-2.23.0" {
		t.Fatalf("expected stable counterpart, got %s", best.Name)
	}
}

func TestDefaultInstallRootEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STANCTL_INSTALL_DIR", dir)

	root, err := DefaultInstallRoot()
	if err != nil {
		t.Fatalf("DefaultInstallRoot: %v", err)
	}
	if root != dir {
		t.Fatalf("expected %s, got %s", dir, root)
	}
}

func TestDefaultInstallRootHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("STANCTL_INSTALL_DIR", "")
	t.Setenv("HOME", home)

	root, err := DefaultInstallRoot()
	if err != nil {
		t.Fatalf("DefaultInstallRoot: %v", err)
	}
	want := filepath.Join(home, ".stanctl")
	if root != want {
		t.Fatalf("expected %s, got %s", want, root)
	}
}
