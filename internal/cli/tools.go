package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stanctl/internal/toolchain"
)

var toolsStrict bool

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Check the build tools CmdStan needs",
		RunE:  runTools,
	}

	cmd.Flags().BoolVar(&toolsStrict, "strict", false, "fail when required tools are missing or outdated")

	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	statuses := toolchain.Detect(cmd.Context())
	for _, st := range statuses {
		s.logger.Printf("build tool %s: path=%s version=%s satisfied=%v error=%s", st.Tool, st.Path, st.Version, st.Satisfied, st.Error)
	}

	if toolsStrict {
		if err := ensureToolsFound(statuses); err != nil {
			return err
		}
	}

	if outputJSON {
		payload := struct {
			Root  string             `json:"root"`
			Tools []toolchain.Status `json:"tools"`
		}{
			Root:  s.paths.Root,
			Tools: statuses,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printToolsResult(cmd, s.paths.Root, statuses)
	return nil
}

func printToolsResult(cmd *cobra.Command, root string, statuses []toolchain.Status) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)

	cmd.Println(bold.Render("Install root:") + " " + root)
	cmd.Println()

	for _, st := range statuses {
		if st.Satisfied {
			headline := green.Render("✓") + " " + bold.Render(st.Tool)
			if st.Version != "" {
				headline += " v" + st.Version
			}
			if st.Minimum != "" {
				headline += faint.Render(" (minimum: " + st.Minimum + ")")
			}
			cmd.Println(headline)

			if st.Path != "" {
				cmd.Println(faint.Render("  " + st.Path))
			}
		} else {
			headline := red.Render("✗") + " " + bold.Render(st.Tool)
			if st.Error != "" {
				headline += red.Render(" (" + st.Error + ")")
			}
			cmd.Println(headline)
		}
		cmd.Println()
	}
}

func ensureToolsFound(statuses []toolchain.Status) error {
	var failures []string
	for _, st := range statuses {
		if st.Satisfied {
			continue
		}
		msg := st.Tool
		if st.Error != "" {
			msg = fmt.Sprintf("%s (%s)", st.Tool, st.Error)
		}
		failures = append(failures, msg)
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.New("build tool check failed: " + strings.Join(failures, ", "))
}
