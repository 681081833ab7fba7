package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stanctl/pkg/cmdstan"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the configuration and returns structured findings. Errors
// mark values the accessors silently replace with defaults; warnings mark
// values that are suspicious but honored.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateRanking()...)
	results = append(results, c.validatePin()...)
	results = append(results, c.validateDurations()...)
	return results
}

func (c Config) validateRanking() []ValidationResult {
	switch cmdstan.RankingMode(c.Ranking) {
	case cmdstan.RankSemver, cmdstan.RankLexicographic:
		return nil
	}
	return []ValidationResult{{
		Level:   "error",
		Message: fmt.Sprintf("unknown ranking %q (expected %q or %q)", c.Ranking, cmdstan.RankSemver, cmdstan.RankLexicographic),
	}}
}

func (c Config) validatePin() []ValidationResult {
	if c.Path == "" {
		return nil
	}

	var results []ValidationResult
	if !filepath.IsAbs(c.Path) {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("pinned path %q is not absolute", c.Path),
		})
		return results
	}
	if _, err := os.Stat(c.Path); err != nil {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("pinned path %q not found", c.Path),
		})
	}
	return results
}

func (c Config) validateDurations() []ValidationResult {
	var results []ValidationResult

	checks := []struct {
		field string
		value string
	}{
		{"scratch.keep_for", c.Scratch.KeepFor},
		{"watch.debounce", c.Watch.Debounce},
	}
	for _, check := range checks {
		d, err := time.ParseDuration(check.value)
		if err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s: invalid duration %q", check.field, check.value),
			})
			continue
		}
		if d < 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s: negative duration %q", check.field, check.value),
			})
		}
	}
	return results
}
