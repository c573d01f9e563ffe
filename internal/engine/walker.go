package engine

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions is the set of file extensions treated as images. It
// mirrors the decoders registered in the detect package.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// FindImageFiles walks root recursively and returns the absolute paths of
// all image files, sorted. When skipDir is non-empty, the subtree rooted
// there is excluded. That keeps a relocation target placed inside the
// scanned directory from feeding its own moved files back into the run.
func FindImageFiles(root, skipDir string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", root, err)
	}

	absSkip := ""
	if skipDir != "" {
		absSkip, err = filepath.Abs(skipDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory %s: %w", skipDir, err)
		}
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if absSkip != "" && isWithin(path, absSkip) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", absRoot, err)
	}

	sort.Strings(files)
	return files, nil
}

// isWithin reports whether path is dir itself or located underneath it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
