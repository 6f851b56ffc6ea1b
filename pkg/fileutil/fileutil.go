// Package fileutil resolves and checks paths of local checkouts.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var log = logger.New("fileutil:fileutil")

// ResolveDir returns the cleaned absolute form of dir, which must name an
// existing directory.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if !DirExists(abs) {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	log.Printf("Resolved directory %s to %s", dir, abs)
	return abs, nil
}

// WithinRoot joins rel onto root and reports whether the result stays inside
// root. Workflow paths given on the command line must not escape a checkout.
func WithinRoot(root, rel string) (string, bool) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	back, err := filepath.Rel(root, full)
	if err != nil || back == ".." || filepath.IsAbs(back) || len(back) > 2 && back[:3] == ".."+string(filepath.Separator) {
		return full, false
	}
	return full, true
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
