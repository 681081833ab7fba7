package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigShowDefaults(t *testing.T) {
	setupRoot(t)

	cmd := newConfigShowCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "ranking: semver") {
		t.Fatalf("expected default ranking, got %q", got)
	}
	if !strings.Contains(got, "keep_for: 72h") {
		t.Fatalf("expected default keep_for, got %q", got)
	}
}

func TestConfigShowJSONOutput(t *testing.T) {
	setupRoot(t)
	outputJSON = true

	cmd := newConfigShowCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show returned error: %v", err)
	}

	if !strings.Contains(stdout.String(), "\"ranking\": \"semver\"") {
		t.Fatalf("expected JSON config, got %q", stdout.String())
	}
}

func TestConfigInitCreatesFile(t *testing.T) {
	root := setupRoot(t)

	cmd := newConfigInitCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	if !strings.Contains(stdout.String(), "wrote") {
		t.Fatalf("expected write notice, got %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(root, "config.yaml")); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	// A second init leaves the existing file alone.
	again := newConfigInitCmd()
	stdout.Reset()
	again.SetOut(stdout)
	again.SetErr(&bytes.Buffer{})

	if err := again.Execute(); err != nil {
		t.Fatalf("second config init returned error: %v", err)
	}
	if !strings.Contains(stdout.String(), "already exists") {
		t.Fatalf("expected existing notice, got %q", stdout.String())
	}
}

func TestConfigInitDoesNotOverwrite(t *testing.T) {
	root := setupRoot(t)
	writeConfigFile(t, root, "ranking: lexicographic\n")

	cmd := newConfigInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "lexicographic") {
		t.Fatalf("expected original config preserved, got %q", string(data))
	}
}

func TestConfigSchema(t *testing.T) {
	setupRoot(t)

	cmd := newConfigSchemaCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config schema returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "\"properties\"") {
		t.Fatalf("expected JSON schema, got %q", got)
	}
	for _, field := range []string{"ranking", "scratch", "watch"} {
		if !strings.Contains(got, field) {
			t.Fatalf("expected field %q in schema, got %q", field, got)
		}
	}
}
