// Package toolchain probes the build tools a CmdStan installation needs to
// compile models: GNU make and a C++ compiler.
package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Status captures the probe result for one build tool.
type Status struct {
	Tool      string `json:"tool"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Minimum   string `json:"minimum,omitempty"`
	Satisfied bool   `json:"satisfied"`
	Error     string `json:"error,omitempty"`
}

// toolDefinition describes one required build tool. Candidates are tried in
// order; the first one on PATH wins.
type toolDefinition struct {
	Name           string
	MinimumVersion string
	Candidates     []string
	VersionSwitch  string
}

var definitions = []toolDefinition{
	{
		Name:           "make",
		MinimumVersion: "3.81",
		Candidates:     []string{executableName("make"), executableName("gmake")},
		VersionSwitch:  "--version",
	},
	{
		Name:          "c++",
		Candidates:    []string{executableName("g++"), executableName("clang++"), executableName("c++")},
		VersionSwitch: "--version",
	},
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// Detect probes every required build tool on PATH.
func Detect(ctx context.Context) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	var statuses []Status
	for _, def := range definitions {
		statuses = append(statuses, detectOne(ctx, def))
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Tool < statuses[j].Tool })
	return statuses
}

func detectOne(ctx context.Context, def toolDefinition) Status {
	status := Status{Tool: def.Name, Minimum: def.MinimumVersion}

	path, err := locate(def)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Path = path

	version, err := readVersion(ctx, path, def.VersionSwitch)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Version = version
	status.Satisfied = meetsMinimum(version, def.MinimumVersion)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, def.MinimumVersion)
	}
	return status
}

func locate(def toolDefinition) (string, error) {
	for _, candidate := range def.Candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s found in PATH (tried %s)", def.Name, strings.Join(def.Candidates, ", "))
}

var versionNumber = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)*`)

func readVersion(ctx context.Context, path, versionSwitch string) (string, error) {
	cmd := exec.CommandContext(ctx, path, versionSwitch)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", path, versionSwitch, err)
	}

	line := firstLine(strings.TrimSpace(string(output)))
	if match := versionNumber.FindString(line); match != "" {
		return match, nil
	}
	return line, nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}

	vParts := numericParts(version)
	mParts := numericParts(minimum)
	for len(vParts) < len(mParts) {
		vParts = append(vParts, 0)
	}
	for len(mParts) < len(vParts) {
		mParts = append(mParts, 0)
	}
	for i := 0; i < len(vParts) && i < len(mParts); i++ {
		if vParts[i] > mParts[i] {
			return true
		}
		if vParts[i] < mParts[i] {
			return false
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	current := strings.Builder{}
	for _, r := range version {
		if r >= '0' && r <= '9' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			val, _ := strconv.Atoi(current.String())
			parts = append(parts, val)
			current.Reset()
		}
	}
	if current.Len() > 0 {
		val, _ := strconv.Atoi(current.String())
		parts = append(parts, val)
	}
	return parts
}
