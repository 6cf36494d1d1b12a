// Package fs provides file system adapters for locating and reading project files.
package fs

import (
	iofs "io/fs"
	"iter"
	"path/filepath"
)

// skippedDirs are never descended into when discovering projects.
var skippedDirs = []string{".git", ".jj", "node_modules", ".yarn", ".pnpm-store", ".vlt"}

// Walker provides file walking functionality.
type Walker struct {
	ignores []string
}

// NewWalker creates a Walker that skips VCS and dependency directories plus
// any directory whose name matches one of ignores.
func NewWalker(ignores ...string) *Walker {
	return &Walker{ignores: append(append([]string(nil), skippedDirs...), ignores...)}
}

// WalkFiles yields every file below root. Unreadable directories are skipped.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && w.skip(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skip(name string) bool {
	for _, pattern := range w.ignores {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
