package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stanctl/internal/tui"
	"stanctl/pkg/cmdstan"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered CmdStan installations",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	installs, err := cmdstan.Discover(s.paths.Root, s.cfg.RankingMode())
	if err != nil && !errors.Is(err, cmdstan.ErrNoInstallations) {
		return err
	}

	activePath := ""
	if p, err := s.resolver.Path(); err == nil {
		activePath = p
	}

	if outputJSON {
		data, err := json.MarshalIndent(installs, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(installs) == 0 {
		cmd.Println("(no installations)")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tRC\tSTATUS\tPATH")
	for _, inst := range installs {
		rc := "no"
		if inst.ReleaseCandidate {
			rc = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			inst.Name,
			tui.NonEmptyOrDash(inst.Version),
			rc,
			tui.InstallStatus(inst, activePath),
			inst.Path,
		)
	}
	w.Flush()
	return nil
}
