// Package scan enumerates candidate video files in the watched folder.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// File is one discovered video file.
type File struct {
	Name string
	Path string
}

// DefaultExtensions covers the recording formats the tool cares about.
var DefaultExtensions = []string{".mp4", ".mkv", ".mov", ".avi", ".webm", ".m4v"}

// Videos walks dir recursively and returns every file whose extension
// matches exts (case-insensitive), sorted by absolute path so a given
// filesystem snapshot always scans the same way. Partial-download
// leftovers (.part, .tmp) are skipped.
func Videos(dir string, exts []string) ([]File, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = struct{}{}
	}

	var files []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".part") || strings.HasSuffix(lower, ".tmp") {
			return nil
		}
		if _, ok := allowed[filepath.Ext(lower)]; !ok {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		files = append(files, File{Name: name, Path: abs})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
