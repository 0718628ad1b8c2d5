package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Scan lists the descriptor files under paths in priority order: paths in
// the given order, then file names alphabetically within each path. Only
// immediate children whose name ends in ext (compared case-insensitively)
// are returned. Missing or unreadable paths become diagnostics.
func Scan(fsys afero.Fs, paths []string, ext string) ([]string, []Diagnostic) {
	var (
		files []string
		diags []Diagnostic
	)
	seenDirs := make(map[string]bool)
	seenFiles := make(map[string]bool)

	for _, dir := range paths {
		clean := filepath.Clean(dir)
		if seenDirs[clean] {
			continue
		}
		seenDirs[clean] = true

		info, err := fsys.Stat(clean)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:    KindMissingPath,
				Path:    clean,
				Message: fmt.Sprintf("search path %s does not exist", clean),
				Err:     err,
			})
			continue
		}
		if !info.IsDir() {
			diags = append(diags, Diagnostic{
				Kind:    KindMissingPath,
				Path:    clean,
				Message: fmt.Sprintf("search path %s is not a directory", clean),
			})
			continue
		}

		entries, err := afero.ReadDir(fsys, clean)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:    KindMissingPath,
				Path:    clean,
				Message: fmt.Sprintf("cannot read search path %s: %v", clean, err),
				Err:     err,
			})
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, e := range entries {
			if !HasExtension(e.Name(), ext) {
				continue
			}
			p := filepath.Join(clean, e.Name())
			if st, err := fsys.Stat(p); err != nil || st.IsDir() {
				continue
			}
			if seenFiles[p] {
				continue
			}
			seenFiles[p] = true
			files = append(files, p)
		}
	}
	return files, diags
}

// HasExtension reports whether name has a non-empty stem followed by ext,
// ignoring case.
func HasExtension(name, ext string) bool {
	return len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}
