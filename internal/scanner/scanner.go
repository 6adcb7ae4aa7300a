package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

type Scanner struct {
	includeExt map[string]bool
	recursive  bool
}

// New accepts extensions with or without the leading dot.
func New(extensions []string, recursive bool) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	return &Scanner{includeExt: extMap, recursive: recursive}
}

// Scan walks root in lexical order and returns the supported files under it.
func (s *Scanner) Scan(root string) ([]types.FileEntry, error) {
	var entries []types.FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := extension(path)
		if !s.includeExt[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		entries = append(entries, types.FileEntry{
			Path:      path,
			Name:      d.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Extension: ext,
		})

		return nil
	})

	return entries, err
}

// Expand keeps the input order. In recursive mode a directory argument is
// replaced by the supported files under it; otherwise it passes through
// unchanged and is later reported as unsupported.
func (s *Scanner) Expand(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	var errs []error

	for _, p := range paths {
		if !s.recursive {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := s.Scan(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("scan %s: %w", p, err))
		}
		for _, e := range entries {
			out = append(out, e.Path)
		}
	}

	return out, errors.Join(errs...)
}

// Stat describes one input path. Directories are returned like files; the
// dispatcher rejects them by extension.
func Stat(path string) (types.FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.FileEntry{}, err
	}
	return types.FileEntry{
		Path:      path,
		Name:      info.Name(),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Extension: extension(path),
	}, nil
}

func extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
