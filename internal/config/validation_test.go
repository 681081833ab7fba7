package config

import (
	"testing"
)

func countLevel(results []ValidationResult, level string) int {
	n := 0
	for _, r := range results {
		if r.Level == level {
			n++
		}
	}
	return n
}

func TestValidateDefaults(t *testing.T) {
	cfg := Default()
	results := cfg.Validate()
	if len(results) != 0 {
		t.Fatalf("expected no findings for defaults, got %v", results)
	}
}

func TestValidateUnknownRanking(t *testing.T) {
	cfg := Default()
	cfg.Ranking = "newest"

	results := cfg.Validate()
	if countLevel(results, "error") != 1 {
		t.Fatalf("expected 1 error, got %v", results)
	}
}

func TestValidateRelativePin(t *testing.T) {
	cfg := Default()
	cfg.Path = "cmdstan-2.23.0"

	results := cfg.Validate()
	if countLevel(results, "warning") != 1 {
		t.Fatalf("expected 1 warning for relative pin, got %v", results)
	}
}

func TestValidateMissingPin(t *testing.T) {
	cfg := Default()
	cfg.Path = "/nonexistent/cmdstan-2.23.0"

	results := cfg.Validate()
	if countLevel(results, "warning") != 1 {
		t.Fatalf("expected 1 warning for missing pin, got %v", results)
	}
}

func TestValidateExistingPin(t *testing.T) {
	cfg := Default()
	cfg.Path = t.TempDir()

	results := cfg.Validate()
	if len(results) != 0 {
		t.Fatalf("expected no findings for existing pin, got %v", results)
	}
}

func TestValidateDurations(t *testing.T) {
	cfg := Default()
	cfg.Scratch.KeepFor = "three days"
	cfg.Watch.Debounce = "-100ms"

	results := cfg.Validate()
	if countLevel(results, "error") != 2 {
		t.Fatalf("expected 2 errors, got %v", results)
	}
}
