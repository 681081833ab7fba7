package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stanctl/internal/config"
	"stanctl/internal/logx"
	"stanctl/internal/paths"
	"stanctl/pkg/cmdstan"
)

var doctorStrict bool

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check toolchain and configuration health",
		RunE:  runDoctor,
	}

	cmd.Flags().BoolVar(&doctorStrict, "strict", false, "fail on warnings as well as errors")

	return cmd
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	// Doctor reports on the layout as found; it never creates directories,
	// so the usual session bootstrap does not apply here.
	pp, err := paths.Resolve(installDir)
	if err != nil {
		return err
	}

	var checks []healthCheck

	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat install root: %w", err)
	}
	checks = append(checks, checkRoot(pp, exists))
	if !exists {
		if err := writeDoctorResult(cmd, pp.Root, checks); err != nil {
			return err
		}
		return ensureHealthy(checks)
	}

	cfg, cfgErr := config.Load(pp.ConfigFile)
	checks = append(checks, checkConfigFile(cfg, cfgErr))
	if cfgErr != nil {
		if err := writeDoctorResult(cmd, pp.Root, checks); err != nil {
			return err
		}
		return ensureHealthy(checks)
	}

	installs, discErr := cmdstan.Discover(pp.Root, cfg.RankingMode())
	checks = append(checks, checkInstallations(pp, installs, discErr))
	if len(installs) > 0 {
		checks = append(checks, checkManifests(installs))
		checks = append(checks, checkLegacy(installs))
	}

	var logger cmdstan.Logger
	if verbose {
		logger = logx.Stderr(true)
	}
	resolver, err := cmdstan.New(cmdstan.Options{
		Root:       pp.Root,
		Path:       cfg.Path,
		PathSource: cmdstan.SourceConfig,
		Ranking:    cfg.RankingMode(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	checks = append(checks, checkResolution(resolver))

	if err := writeDoctorResult(cmd, pp.Root, checks); err != nil {
		return err
	}
	return ensureHealthy(checks)
}

func checkRoot(pp paths.AppPaths, exists bool) healthCheck {
	if !exists {
		return healthCheck{Name: "Root", Status: "error", Summary: fmt.Sprintf("%s does not exist", pp.Root)}
	}
	return healthCheck{Name: "Root", Status: "ok", Summary: pp.Root}
}

func checkConfigFile(cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.Validate()
	var warnings, errCount int
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errCount++
		}
	}

	summary := fmt.Sprintf("version %d, ranking %s", cfg.Version, cfg.Ranking)
	if errCount > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errCount)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkInstallations(pp paths.AppPaths, installs []cmdstan.Installation, err error) healthCheck {
	if err != nil {
		if errors.Is(err, cmdstan.ErrNoInstallations) {
			return healthCheck{Name: "Installations", Status: "warning", Summary: fmt.Sprintf("none found under %s", pp.Root)}
		}
		return healthCheck{Name: "Installations", Status: "error", Summary: err.Error()}
	}

	summary := fmt.Sprintf("%d found", len(installs))
	if best, ok := cmdstan.Preferred(installs); ok {
		summary += ", preferred " + best.Name
	}
	return healthCheck{Name: "Installations", Status: "ok", Summary: summary}
}

func checkManifests(installs []cmdstan.Installation) healthCheck {
	var broken []string
	for _, inst := range installs {
		if !inst.Valid {
			broken = append(broken, inst.Name)
		}
	}
	if len(broken) == 0 {
		return healthCheck{Name: "Manifests", Status: "ok", Summary: fmt.Sprintf("%d of %d readable", len(installs), len(installs))}
	}
	return healthCheck{
		Name:    "Manifests",
		Status:  "warning",
		Summary: fmt.Sprintf("%d of %d unreadable: %s", len(broken), len(installs), joinComma(broken)),
	}
}

func checkLegacy(installs []cmdstan.Installation) healthCheck {
	for _, inst := range installs {
		if inst.Legacy {
			return healthCheck{
				Name:    "Legacy",
				Status:  "warning",
				Summary: fmt.Sprintf("bare directory at %s; run 'stanctl repair'", inst.Path),
			}
		}
	}
	return healthCheck{Name: "Legacy", Status: "ok", Summary: "none"}
}

func checkResolution(resolver *cmdstan.Resolver) healthCheck {
	path, err := resolver.Path()
	if err != nil {
		if errors.Is(err, cmdstan.ErrNotConfigured) {
			return healthCheck{Name: "Resolution", Status: "warning", Summary: "not configured; run 'stanctl use'"}
		}
		return healthCheck{Name: "Resolution", Status: "error", Summary: err.Error()}
	}

	if version, ok := resolver.KnownVersion(); ok {
		return healthCheck{
			Name:    "Resolution",
			Status:  "ok",
			Summary: fmt.Sprintf("%s (version %s, source %s)", path, version, resolver.PathSource()),
		}
	}
	return healthCheck{Name: "Resolution", Status: "warning", Summary: fmt.Sprintf("%s (version unknown)", path)}
}

func writeDoctorResult(cmd *cobra.Command, root string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("TOOLCHAIN HEALTH:")+" "+root)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-14s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}

// ensureHealthy turns failing checks into a command error so the exit code
// reflects them. Warnings count only under --strict.
func ensureHealthy(checks []healthCheck) error {
	var failures []string
	for _, c := range checks {
		if c.Status == "error" || (doctorStrict && c.Status == "warning") {
			failures = append(failures, fmt.Sprintf("%s (%s)", c.Name, c.Summary))
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.New("health check failed: " + strings.Join(failures, "; "))
}

func joinComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += ", " + item
	}
	return result
}
