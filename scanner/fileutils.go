package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"handcompare/imageprocessor"
)

// ListImages returns the supported image files directly inside folder,
// sorted by name. Subdirectories are not visited.
func ListImages(folder string) ([]string, error) {
	return listMatching(folder, imageprocessor.IsImageFile)
}

// ListFilesWithExt returns the files directly inside folder whose extension
// matches ext case-insensitively, sorted by name
func ListFilesWithExt(folder, ext string) ([]string, error) {
	ext = strings.ToLower(ext)
	return listMatching(folder, func(path string) bool {
		return strings.ToLower(filepath.Ext(path)) == ext
	})
}

func listMatching(folder string, match func(path string) bool) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", folder, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		if match(path) {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
