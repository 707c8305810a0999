// Package fsutil locates input files on disk.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFiles expands paths into a sorted, de-duplicated list of files.
//
// A directory contributes every file below it whose name ends in one of
// extensions; hidden subdirectories such as .git are not entered. A file
// named explicitly is always included, whatever its extension.
func FindFiles(paths []string, extensions ...string) ([]string, error) {
	found := make(map[string]struct{})
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", root, err)
		}
		if !info.IsDir() {
			found[filepath.Clean(root)] = struct{}{}
			continue
		}
		if err := walk(root, extensions, found); err != nil {
			return nil, fmt.Errorf("error walking %s: %w", root, err)
		}
	}

	out := make([]string, 0, len(found))
	for p := range found {
		out = append(out, p)
	}
	slices.Sort(out)
	return out, nil
}

func walk(root string, extensions []string, found map[string]struct{}) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if hasExtension(d.Name(), extensions) {
			found[path] = struct{}{}
		}
		return nil
	})
}

func hasExtension(name string, extensions []string) bool {
	return slices.ContainsFunc(extensions, func(ext string) bool {
		return ext != "" && strings.HasSuffix(name, ext)
	})
}
