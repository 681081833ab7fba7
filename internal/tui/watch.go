package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stanctl/pkg/cmdstan"
)

// Column widths for the watch table. Content is truncated to fit rather
// than expanding columns.
const (
	nameWidth    = 28
	versionWidth = 14
	statusWidth  = 7
)

// WatchModel is a bubbletea model that renders a live table of the
// installations under the install root, refreshed from watcher snapshots.
type WatchModel struct {
	root   string
	pinned string

	spinner  spinner.Model
	installs []cmdstan.Installation
	lastScan time.Time
	scanErr  error
	scans    int

	done bool
	err  error
}

// NewWatchModel creates the watch display for root. A non-empty pinned path
// marks that installation active regardless of ranking.
func NewWatchModel(root, pinned string) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	return WatchModel{root: root, pinned: pinned, spinner: sp}
}

// Init satisfies the tea.Model interface.
func (m WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update satisfies the tea.Model interface.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SnapshotMsg:
		m.installs = msg.Installations
		m.lastScan = msg.At
		m.scanErr = msg.Err
		m.scans++
		return m, nil

	case WatchClosedMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m WatchModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Watching %s  (q to quit)\n\n", m.root)

	headers := []string{
		HeaderStyle.Render(pad("NAME", nameWidth)),
		HeaderStyle.Render(pad("VERSION", versionWidth)),
		HeaderStyle.Render(pad("STATUS", statusWidth)),
	}
	b.WriteString(strings.Join(headers, "  "))
	b.WriteByte('\n')

	if len(m.installs) == 0 {
		b.WriteString("(no installations)\n")
	}

	active := m.activePath()
	for _, inst := range m.installs {
		status := InstallStatus(inst, active)
		parts := []string{
			pad(TruncateWithEllipsis(inst.Name, nameWidth), nameWidth),
			pad(TruncateWithEllipsis(NonEmptyOrDash(inst.Version), versionWidth), versionWidth),
			StatusStyle(status).Render(pad(status, statusWidth)),
		}
		b.WriteString(strings.Join(parts, "  "))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.scanErr != nil {
		fmt.Fprintf(&b, "%s\n", StatusStyle("invalid").Render(fmt.Sprintf("scan error: %v", m.scanErr)))
	}
	if m.lastScan.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), FooterStyle.Render("waiting for first scan"))
	} else {
		detail := fmt.Sprintf("last scan %s, %d total", m.lastScan.Format("15:04:05"), m.scans)
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), FooterStyle.Render(detail))
	}

	return b.String()
}

// Done returns whether the model has finished.
func (m WatchModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m WatchModel) Err() error {
	return m.err
}

// activePath is the installation highlighted as active: the pinned path when
// one is set, otherwise the preferred candidate of the latest snapshot.
func (m WatchModel) activePath() string {
	if m.pinned != "" {
		return m.pinned
	}
	if best, ok := cmdstan.Preferred(m.installs); ok {
		return best.Path
	}
	return ""
}

// InstallStatus maps an installation to its display state.
func InstallStatus(inst cmdstan.Installation, activePath string) string {
	switch {
	case activePath != "" && inst.Path == activePath:
		return "active"
	case !inst.Valid:
		return "invalid"
	case inst.Legacy:
		return "legacy"
	case inst.ReleaseCandidate:
		return "rc"
	default:
		return "ok"
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis truncates a string and adds "..." if it exceeds max length.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
