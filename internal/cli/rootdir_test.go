package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootPrintsInstallRoot(t *testing.T) {
	root := setupRoot(t)

	cmd := newRootDirCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command returned error: %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != root {
		t.Fatalf("expected root %q, got %q", root, got)
	}
}

func TestRootEnvOverride(t *testing.T) {
	setupRoot(t)
	other := t.TempDir()
	installDir = ""
	t.Setenv("STANCTL_INSTALL_DIR", other)

	cmd := newRootDirCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command returned error: %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != other {
		t.Fatalf("expected env root %q, got %q", other, got)
	}
}

func TestRootJSONOutput(t *testing.T) {
	root := setupRoot(t)
	outputJSON = true

	cmd := newRootDirCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "\"root\"") || !strings.Contains(got, root) {
		t.Fatalf("expected root in JSON output, got %q", got)
	}
}
