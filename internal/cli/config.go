package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stanctl/internal/config"
	"stanctl/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize stanctl configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSchemaCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration if none exists",
		RunE:  runConfigInit,
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON Schema",
		RunE:  runConfigSchema,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(installDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	var data []byte
	if outputJSON {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = cfg.Marshal()
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(installDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureLayout(); err != nil {
		return err
	}

	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}

	if !exists {
		if err := config.Save(pp.ConfigFile, config.Default()); err != nil {
			return err
		}
	}

	if outputJSON {
		payload := struct {
			Path    string `json:"path"`
			Created bool   `json:"created"`
		}{Path: pp.ConfigFile, Created: !exists}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", pp.ConfigFile)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pp.ConfigFile)
	}
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := config.MarshalSchema(config.Schema())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
