package cmdstan

import (
	"fmt"
	"os"
	"path/filepath"
)

// RepairOptions configures the legacy layout repair.
type RepairOptions struct {
	// DryRun reports the rename without touching disk.
	DryRun bool
	Logger Logger
}

// RepairResult reports what the repair did, or would do under DryRun.
type RepairResult struct {
	Renamed bool   `json:"renamed"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Version string `json:"version,omitempty"`
	DryRun  bool   `json:"dry_run"`
}

// RepairLegacyLayout renames a bare legacy install directory to the
// versioned naming convention so discovery ranks it by name. This is the
// only operation that mutates the install tree; it is a no-op when no
// legacy directory exists, so repeated calls are safe. The rename is not
// transactional: a failure leaves either the old or the new name in place,
// and both discovery and a re-run handle each state.
func RepairLegacyLayout(root string, opts RepairOptions) (RepairResult, error) {
	result := RepairResult{DryRun: opts.DryRun}
	legacy := filepath.Join(root, dirPrefix)

	info, err := os.Stat(legacy)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, fmt.Errorf("stat legacy install: %w", err)
	}
	if !info.IsDir() {
		return result, nil
	}

	version, err := ReadVersion(legacy)
	if err != nil {
		return result, fmt.Errorf("read legacy install version: %w", err)
	}

	target := filepath.Join(root, dirPrefix+"-"+version)
	if _, err := os.Stat(target); err == nil {
		return result, fmt.Errorf("cannot rename %s: %s already exists", legacy, target)
	} else if !os.IsNotExist(err) {
		return result, fmt.Errorf("stat rename target: %w", err)
	}

	result.From = legacy
	result.To = target
	result.Version = version

	if opts.DryRun {
		result.Renamed = true
		return result, nil
	}

	if err := os.Rename(legacy, target); err != nil {
		return result, fmt.Errorf("rename legacy install: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Printf("renamed legacy install %s -> %s", legacy, target)
	}

	result.Renamed = true
	return result, nil
}
