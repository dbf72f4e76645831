package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrManifestNotFound = errors.New(ManifestName + " not found")

// FindManifest walks up from start until it finds lox.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// ResolveHome returns $LOX_HOME, defaulting to ~/.lox.
func ResolveHome() (string, error) {
	if env := strings.TrimSpace(os.Getenv("LOX_HOME")); env != "" {
		return filepath.Abs(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".lox"), nil
}
