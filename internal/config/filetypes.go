package config

import (
	"path/filepath"
	"strings"
)

// FileType names a group of files the batch reformatter handles.
type FileType struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

type FileTypes []FileType

// Match returns the file type for path. With no file types configured every
// path matches the catch-all type.
func (f FileTypes) Match(path string) *FileType {
	if len(f) == 0 {
		return &FileType{Name: "any"}
	}
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range f {
		ft := &f[i]
		for _, e := range ft.Extensions {
			eLower := strings.ToLower(e)
			if eLower == ext || eLower == baseLower {
				return ft
			}
			if strings.HasPrefix(eLower, ".") && strings.TrimPrefix(eLower, ".") == ext {
				return ft
			}
		}
	}
	return nil
}
