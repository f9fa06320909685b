// Package fs provides file system adapters for discovering, hashing and moving module files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModuleFinder = (*Walker)(nil)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root, skipping VCS metadata and directories
// whose name matches one of ignores. Yielded paths include root.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if skipAction := w.shouldSkipDir(d, ignores); skipAction != nil {
				return skipAction
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// ModuleFiles returns the files below root whose extension is one of
// extensions (case-insensitive), relative to root and sorted.
func (w *Walker) ModuleFiles(root string, extensions []string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "path", root)
	}
	root = abs

	var files []string
	for path := range w.WalkFiles(root, nil) {
		if !hasExtension(path, extensions) {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to compute relative path"), "path", path)
		}
		files = append(files, rel)
	}
	slices.Sort(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range extensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// shouldSkipDir returns filepath.SkipDir for directories that must not be entered.
func (w *Walker) shouldSkipDir(d fs.DirEntry, ignores []string) error {
	if !d.IsDir() {
		return nil
	}

	name := d.Name()
	if name == ".git" || name == ".jj" {
		return filepath.SkipDir
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return filepath.SkipDir
		}
	}

	return nil
}
