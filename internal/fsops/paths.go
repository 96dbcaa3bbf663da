package fsops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpandUser expands a leading "~" or "~/" to the current user's home directory.
func ExpandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Resolve expands the user home prefix, makes the path absolute, and resolves
// symlinks through the deepest existing ancestor. The returned path is what
// containment checks must operate on: a ".." or symlink trick cannot escape
// an allowed root after resolution.
func Resolve(path string) (string, error) {
	expanded, err := ExpandUser(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	return resolveExisting(abs)
}

// resolveExisting evaluates symlinks for the longest existing prefix of abs
// and rejoins the non-existing tail lexically.
func resolveExisting(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	resolvedParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}

// UnderAny reports whether path sits under (or equals) one of the roots.
// Both path and roots must already be resolved.
func UnderAny(path string, roots []string) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

// SafeJoin joins a file name onto a directory, neutralizing path separators
// in the name so a crafted new-name cannot traverse out of dir.
func SafeJoin(dir, name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return filepath.Join(dir, name)
}

// IsHidden reports whether a file name is hidden by dotfile convention.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
