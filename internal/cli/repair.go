package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"stanctl/internal/tui"
	"stanctl/pkg/cmdstan"
)

var (
	repairDryRun bool
	repairYes    bool
)

func newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rename a legacy bare cmdstan directory to its versioned form",
		RunE:  runRepair,
	}

	cmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "Report the rename without performing it")
	cmd.Flags().BoolVar(&repairYes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func runRepair(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	// Probe first so the prompt and the dry run can name the exact rename.
	preview, err := cmdstan.RepairLegacyLayout(s.paths.Root, cmdstan.RepairOptions{DryRun: true})
	if err != nil {
		return err
	}

	if !preview.Renamed {
		if outputJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(preview)
		}
		cmd.Println("no legacy layout found")
		return nil
	}

	if repairDryRun {
		if outputJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(preview)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "would rename %s to %s (version %s)\n", preview.From, preview.To, preview.Version)
		return nil
	}

	if !repairYes && tui.DetectMode(cmd.OutOrStdout(), false, outputJSON) == tui.ModeTUI {
		confirmed := false
		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("Rename %s to %s?", preview.From, preview.To)).
			Affirmative("Rename").
			Negative("Cancel").
			Value(&confirmed)

		form := huh.NewForm(huh.NewGroup(confirm))
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !confirmed {
			cmd.Println("aborted")
			return nil
		}
	}

	result, err := cmdstan.RepairLegacyLayout(s.paths.Root, cmdstan.RepairOptions{Logger: s.logger})
	if err != nil {
		return err
	}

	if outputJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s (version %s)\n", result.From, result.To, result.Version)
	return nil
}
