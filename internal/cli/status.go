package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stanctl/pkg/cmdstan"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how the active CmdStan was resolved",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	installs, err := cmdstan.Discover(s.paths.Root, s.cfg.RankingMode())
	if err != nil && !errors.Is(err, cmdstan.ErrNoInstallations) {
		return err
	}

	legacy := false
	for _, inst := range installs {
		if inst.Legacy {
			legacy = true
		}
	}

	activePath := ""
	if p, err := s.resolver.Path(); err == nil {
		activePath = p
	}
	version, _ := s.resolver.KnownVersion()

	if outputJSON {
		payload := statusResult{
			Root:          s.paths.Root,
			Ranking:       string(s.cfg.RankingMode()),
			Path:          activePath,
			Version:       version,
			Source:        string(s.resolver.PathSource()),
			Installations: len(installs),
			Legacy:        legacy,
			Scratch:       s.resolver.ScratchDir(),
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	faint := lipgloss.NewStyle().Faint(true).Inline(true)

	cmd.Println(bold.Render("Install root:") + " " + s.paths.Root)
	cmd.Println(bold.Render("Ranking:") + " " + string(s.cfg.RankingMode()))
	cmd.Println()

	if activePath != "" {
		headline := green.Render("✓") + " " + bold.Render(filepath.Base(activePath))
		if version != "" {
			headline += " v" + version
		}
		cmd.Println(headline)

		detail := string(s.resolver.PathSource())
		if detail == "" {
			detail = "unknown"
		}
		detail += " · " + activePath
		cmd.Println(faint.Render("  " + detail))
	} else {
		cmd.Println(red.Render("✗") + " " + bold.Render("not configured"))
		cmd.Println(faint.Render("  run 'stanctl use' or install a toolchain under " + s.paths.Root))
	}
	cmd.Println()

	installLine := fmt.Sprintf("Installations: %d", len(installs))
	cmd.Println(installLine)
	if legacy {
		cmd.Println(yellow.Render("!") + " legacy layout present — run 'stanctl repair'")
	}
	cmd.Println("Scratch: " + s.resolver.ScratchDir())
	return nil
}

type statusResult struct {
	Root          string `json:"root"`
	Ranking       string `json:"ranking"`
	Path          string `json:"path,omitempty"`
	Version       string `json:"version,omitempty"`
	Source        string `json:"source,omitempty"`
	Installations int    `json:"installations"`
	Legacy        bool   `json:"legacy"`
	Scratch       string `json:"scratch"`
}
