package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stanctl/internal/paths"
)

func newRootDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the effective install root",
		RunE:  runRootDir,
	}
}

func runRootDir(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(installDir)
	if err != nil {
		return err
	}

	if outputJSON {
		payload := struct {
			Root string `json:"root"`
		}{Root: pp.Root}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), pp.Root)
	return nil
}
