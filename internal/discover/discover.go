// Package discover finds the source files of a checked-out repository.
package discover

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// DefaultSuffix is the file name suffix of Java sources.
const DefaultSuffix = ".java"

// Options configures a walk.
type Options struct {
	// Suffix selects files by name. Empty means DefaultSuffix.
	Suffix string
	// ExcludeVendored skips paths that look like vendored dependencies.
	ExcludeVendored bool
}

// Files returns every regular file under root whose name ends in the
// configured suffix. Entries are visited in the order the filesystem lists
// them; callers must not rely on lexical order. Symbolic links are followed
// and link cycles are not detected. Unreadable directories are treated as
// empty.
func Files(root string, opts Options) []string {
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	var files []string
	walk(root, root, suffix, opts.ExcludeVendored, &files)
	return files
}

var openDir = os.Open

func walk(root, dir, suffix string, excludeVendored bool, files *[]string) {
	d, err := openDir(dir)
	if err != nil {
		return
	}
	// Readdir keeps the native enumeration order; os.ReadDir would sort.
	entries, err := d.Readdir(-1)
	d.Close()
	if err != nil && len(entries) == 0 {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		// Readdir reports links themselves; classify by their targets.
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			entry = target
		}
		if excludeVendored && isVendored(root, path, entry.IsDir()) {
			continue
		}
		switch {
		case entry.IsDir():
			if entry.Name() == ".git" {
				continue
			}
			walk(root, path, suffix, excludeVendored, files)
		case entry.Mode().IsRegular() && strings.HasSuffix(entry.Name(), suffix):
			*files = append(*files, path)
		}
	}
}

func isVendored(root, path string, dir bool) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		rel += "/"
	}
	return enry.IsVendor(rel)
}
