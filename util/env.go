package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome resolves a leading "~/" against the user's home
// directory. Other paths pass through untouched.
func ExpandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
