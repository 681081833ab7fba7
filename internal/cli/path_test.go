package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"stanctl/pkg/cmdstan"
)

func TestPathPrintsBarePath(t *testing.T) {
	root := setupRoot(t)
	dir := writeInstall(t, root, "cmdstan-2.36.0", "2.36.0")

	cmd := newPathCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("path command returned error: %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != dir {
		t.Fatalf("expected bare path %q, got %q", dir, got)
	}
}

func TestPathNotConfigured(t *testing.T) {
	setupRoot(t)

	cmd := newPathCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected error on empty root")
	}
	if !errors.Is(err, cmdstan.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if !strings.Contains(err.Error(), "stanctl use") {
		t.Fatalf("expected hint in error, got %v", err)
	}
}

func TestPathJSONOutput(t *testing.T) {
	root := setupRoot(t)
	writeInstall(t, root, "cmdstan-2.36.0", "2.36.0")
	outputJSON = true

	cmd := newPathCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("path command returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "\"version\": \"2.36.0\"") {
		t.Fatalf("expected version in JSON output, got %q", got)
	}
	if !strings.Contains(got, "\"source\": \"default\"") {
		t.Fatalf("expected default source in JSON output, got %q", got)
	}
}
