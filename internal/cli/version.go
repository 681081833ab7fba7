package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stanctl/pkg/cmdstan"
)

// appVersion is the stanctl build version, set via -ldflags on release
// builds.
var appVersion = "dev"

var versionApp bool

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the active toolchain version",
		RunE:  runVersion,
	}

	cmd.Flags().BoolVar(&versionApp, "app", false, "Print the stanctl build version instead")

	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	if versionApp {
		if outputJSON {
			payload := struct {
				AppVersion string `json:"app_version"`
			}{AppVersion: appVersion}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), appVersion)
		return nil
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	version, err := s.resolver.Version()
	if err != nil {
		if errors.Is(err, cmdstan.ErrNotConfigured) {
			return fmt.Errorf("%w (run 'stanctl use' or install a toolchain under %s)", err, s.resolver.InstallRoot())
		}
		return err
	}

	if outputJSON {
		path, _ := s.resolver.Path()
		payload := struct {
			Version string `json:"version"`
			Path    string `json:"path"`
			Source  string `json:"source"`
		}{
			Version: version,
			Path:    path,
			Source:  string(s.resolver.PathSource()),
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
