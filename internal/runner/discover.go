package runner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never searched for test files. Dependency trees and build
// output match test globs by the thousands and are never the user's tests.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".git":         true,
	".venv":        true,
	"venv":         true,
}

// discover matches the globs against root and returns the union of hits,
// relative to root, deduplicated and sorted. Results inside skipped
// directories are filtered out.
func discover(root string, globs []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)

	for _, glob := range globs {
		matches, err := doublestar.Glob(fsys, glob,
			doublestar.WithFilesOnly(), doublestar.WithNoFollow())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if inSkippedDir(m) {
				continue
			}
			seen[m] = true
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func inSkippedDir(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if skippedDirs[part] {
			return true
		}
	}
	return false
}

// joinRoot resolves a slash-separated fs.FS path against the OS root path.
func joinRoot(root, relPath string) string {
	return filepath.Join(root, filepath.FromSlash(relPath))
}
