package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	cleanDryRun bool
	cleanAll    bool
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale scratch directories",
		RunE:  runClean,
	}

	cmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "List what would be removed without deleting")
	cmd.Flags().BoolVar(&cleanAll, "all", false, "Remove scratch entries regardless of age")

	return cmd
}

type cleanResult struct {
	Removed    int   `json:"removed"`
	FreedBytes int64 `json:"freed_bytes"`
	Skipped    int   `json:"skipped"`
	DryRun     bool  `json:"dry_run"`
}

func runClean(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := os.ReadDir(s.paths.ScratchDir)
	if err != nil {
		return fmt.Errorf("read scratch dir: %w", err)
	}

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}
	cutoff := time.Now().Add(-s.cfg.KeepFor())

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			result.Skipped++
			continue
		}
		if !cleanAll && info.ModTime().After(cutoff) {
			continue
		}
		removeScratchEntry(filepath.Join(s.paths.ScratchDir, entry.Name()), out, &result)
	}

	return writeCleanResult(out, result)
}

func removeScratchEntry(path string, out io.Writer, result *cleanResult) {
	size, err := entrySize(path)
	if err != nil {
		result.Skipped++
		return
	}

	if cleanDryRun {
		if !outputJSON {
			fmt.Fprintf(out, "would remove %s (%s)\n", path, formatSize(size))
		}
		result.Removed++
		result.FreedBytes += size
		return
	}

	if err := os.RemoveAll(path); err != nil {
		if !outputJSON {
			fmt.Fprintf(out, "error removing %s: %v\n", path, err)
		}
		result.Skipped++
		return
	}

	result.Removed++
	result.FreedBytes += size
	if !outputJSON {
		fmt.Fprintf(out, "removed %s (%s)\n", path, formatSize(size))
	}
}

// entrySize totals a file or directory tree.
func entrySize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total, err
}

func writeCleanResult(out io.Writer, result cleanResult) error {
	if outputJSON {
		return json.NewEncoder(out).Encode(result)
	}

	action := "complete"
	if result.DryRun {
		action = "(dry run)"
	}
	fmt.Fprintf(out, "\nClean scratch %s: %d removed, %s freed, %d skipped\n",
		action, result.Removed, formatSize(result.FreedBytes), result.Skipped)
	return nil
}

func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
