package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stanctl/pkg/cmdstan"
)

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the active CmdStan path",
		RunE:  runPath,
	}
}

func runPath(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := s.resolver.Path()
	if err != nil {
		if errors.Is(err, cmdstan.ErrNotConfigured) {
			return fmt.Errorf("%w (run 'stanctl use' or install a toolchain under %s)", err, s.resolver.InstallRoot())
		}
		return err
	}

	if outputJSON {
		version, _ := s.resolver.KnownVersion()
		payload := struct {
			Path    string `json:"path"`
			Version string `json:"version,omitempty"`
			Source  string `json:"source"`
		}{
			Path:    path,
			Version: version,
			Source:  string(s.resolver.PathSource()),
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	// Bare output so scripts can capture it directly.
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
