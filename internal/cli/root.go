package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	installDir string
	outputJSON bool
	verbose    bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stanctl",
		Short: "CmdStan toolchain locator",
	}

	cmd.PersistentFlags().StringVar(&installDir, "install-dir", "", "Path to the install root")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug detail to stderr")

	cmd.AddCommand(newUseCmd())
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRootDirCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newRepairCmd())
	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
