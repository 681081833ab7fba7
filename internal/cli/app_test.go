package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"stanctl/pkg/cmdstan"
)

// setupRoot points the package flags at a fresh install root and restores
// them afterwards. CMDSTAN is cleared so the test runner's environment
// cannot leak into resolution.
func setupRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("CMDSTAN", "")
	t.Setenv("STANCTL_INSTALL_DIR", "")

	prevDir, prevJSON, prevVerbose := installDir, outputJSON, verbose
	t.Cleanup(func() {
		installDir, outputJSON, verbose = prevDir, prevJSON, prevVerbose
	})
	installDir = root
	outputJSON = false
	verbose = false

	return root
}

func writeInstall(t *testing.T, root, name, version string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	manifest := fmt.Sprintf("CMDSTAN_VERSION := %s\n", version)
	if err := os.WriteFile(filepath.Join(dir, "makefile"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write makefile: %v", err)
	}
	return dir
}

func writeConfigFile(t *testing.T, root, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestNewSessionLayout(t *testing.T) {
	root := setupRoot(t)
	writeInstall(t, root, "cmdstan-2.36.0", "2.36.0")

	s, err := newSession()
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer s.Close()

	if s.paths.Root != root {
		t.Fatalf("expected root %s, got %s", root, s.paths.Root)
	}
	if s.resolver.ScratchDir() != s.paths.ScratchDir {
		t.Fatalf("expected scratch %s, got %s", s.paths.ScratchDir, s.resolver.ScratchDir())
	}

	for _, dir := range []string{s.paths.LogsDir, s.paths.ScratchDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %s to be a directory", dir)
		}
	}
}

func TestNewSessionConfigPin(t *testing.T) {
	root := setupRoot(t)
	writeInstall(t, root, "cmdstan-2.36.0", "2.36.0")
	pin := writeInstall(t, root, "cmdstan-2.34.0", "2.34.0")

	writeConfigFile(t, root, "path: "+pin+"\n")

	s, err := newSession()
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer s.Close()

	p, err := s.resolver.Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if p != pin {
		t.Fatalf("expected pinned path %s, got %s", pin, p)
	}
	if s.resolver.PathSource() != cmdstan.SourceConfig {
		t.Fatalf("expected source config, got %q", s.resolver.PathSource())
	}
}

func TestNewSessionEnvBeatsPin(t *testing.T) {
	root := setupRoot(t)
	pin := writeInstall(t, root, "cmdstan-2.34.0", "2.34.0")
	env := writeInstall(t, root, "cmdstan-2.35.0", "2.35.0")

	writeConfigFile(t, root, "path: "+pin+"\n")
	t.Setenv("CMDSTAN", env)

	s, err := newSession()
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer s.Close()

	p, err := s.resolver.Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if p != env {
		t.Fatalf("expected env path %s, got %s", env, p)
	}
	if s.resolver.PathSource() != cmdstan.SourceEnv {
		t.Fatalf("expected source env, got %q", s.resolver.PathSource())
	}
}
