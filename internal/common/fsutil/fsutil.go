package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/data/vaxslots.db
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PrepareDBPath turns a configured database path into a SQLite DSN. Plain
// file paths are home-expanded, made absolute and get their parent directory
// created. DSNs (file: URIs, :memory:) pass through untouched.
func PrepareDBPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty database path")
	}
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}
	p, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create db dir: %w", err)
	}
	return abs, nil
}
