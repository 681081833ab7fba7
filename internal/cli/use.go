package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stanctl/internal/config"
	"stanctl/internal/tui"
	"stanctl/pkg/cmdstan"
)

var (
	useInteractive bool
	useSave        bool
)

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [path]",
		Short: "Select the active CmdStan installation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runUse,
	}

	cmd.Flags().BoolVar(&useInteractive, "interactive", false, "Pick from discovered installations")
	cmd.Flags().BoolVar(&useSave, "save", false, "Pin the selection in the config file")

	return cmd
}

func runUse(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var target string
	switch {
	case useInteractive:
		target, err = pickInstallation(cmd, s)
		if err != nil {
			return err
		}
	case len(args) == 1:
		target = args[0]
	}

	// An empty target falls through to the default preferred installation.
	path, err := s.resolver.SetPath(target)
	if err != nil {
		return err
	}
	s.logger.Printf("stanctl use: path=%s source=%s", path, s.resolver.PathSource())

	if useSave {
		s.cfg.Path = path
		if err := config.Save(s.paths.ConfigFile, s.cfg); err != nil {
			return err
		}
	}

	version, _ := s.resolver.KnownVersion()

	if outputJSON {
		payload := useResult{
			Path:    path,
			Version: version,
			Source:  string(s.resolver.PathSource()),
			Saved:   useSave,
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
	faint := lipgloss.NewStyle().Faint(true).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, green.Render("✓")+" "+bold.Render("using")+" "+path)
	detail := "version " + tui.NonEmptyOrDash(version) + " · source " + string(s.resolver.PathSource())
	fmt.Fprintln(out, faint.Render("  "+detail))
	if useSave {
		fmt.Fprintln(out, faint.Render("  pinned in "+s.paths.ConfigFile))
	}
	return nil
}

func pickInstallation(cmd *cobra.Command, s *session) (string, error) {
	if tui.DetectMode(cmd.OutOrStdout(), false, outputJSON) != tui.ModeTUI {
		return "", errors.New("interactive selection requires a terminal")
	}

	installs, err := cmdstan.Discover(s.paths.Root, s.cfg.RankingMode())
	if err != nil {
		return "", err
	}

	opts := make([]huh.Option[string], 0, len(installs))
	for _, inst := range installs {
		label := fmt.Sprintf("%s (%s)", inst.Name, tui.NonEmptyOrDash(inst.Version))
		opts = append(opts, huh.NewOption(label, inst.Path))
	}

	var target string
	sel := huh.NewSelect[string]().
		Title("Select a CmdStan installation").
		Options(opts...).
		Value(&target)

	form := huh.NewForm(huh.NewGroup(sel))
	if err := form.Run(); err != nil {
		return "", err
	}
	return target, nil
}

type useResult struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source"`
	Saved   bool   `json:"saved,omitempty"`
}
