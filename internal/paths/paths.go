package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"stanctl/pkg/cmdstan"
)

// AppPaths captures canonical locations under the stanctl install root.
type AppPaths struct {
	Root       string
	ConfigFile string
	LogsDir    string
	ScratchDir string
}

// Resolve determines the install root using the optional --install-dir flag,
// falling back to $STANCTL_INSTALL_DIR and then ~/.stanctl.
func Resolve(installDirFlag string) (AppPaths, error) {
	var (
		root string
		err  error
	)

	if installDirFlag != "" {
		root, err = filepath.Abs(installDirFlag)
	} else {
		root, err = cmdstan.DefaultInstallRoot()
	}
	if err != nil {
		return AppPaths{}, fmt.Errorf("resolve install root: %w", err)
	}

	return newAppPaths(root), nil
}

func newAppPaths(root string) AppPaths {
	return AppPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "config.yaml"),
		LogsDir:    filepath.Join(root, "logs"),
		ScratchDir: filepath.Join(root, "scratch"),
	}
}

// EnsureLayout creates the install root and its logs/scratch hierarchy.
// Installation directories themselves are never created here.
func (p AppPaths) EnsureLayout() error {
	dirs := []string{p.Root, p.LogsDir, p.ScratchDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
