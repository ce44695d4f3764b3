package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// SystemDir marks a vault root and holds its configuration and preferences.
const SystemDir = ".dreamdiary"

// Files inside SystemDir.
const (
	ConfigFile      = "config.yaml"
	PreferencesFile = "preferences.yaml"
)

// FindRoot looks upwards from startDir for a directory containing SystemDir
// and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, SystemDir)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s directory found from %s", SystemDir, abs)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
