// Package fsutil provides file system helpers for locating model sources.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ModelExtension is the file extension of model sources.
const ModelExtension = ".depict"

// FindModels expands a path into model files: a file path is returned
// as-is, a directory is searched recursively for files with the model
// extension.
func FindModels(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ModelExtension) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
