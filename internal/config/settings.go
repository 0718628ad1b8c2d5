package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/reztools/rt/internal/branding"
)

// Settings is the normalized configuration for one invocation. It is built
// once and never mutated afterwards.
type Settings struct {
	// SearchPaths are absolute, cleaned directories in priority order.
	// Entries may not exist.
	SearchPaths []string
	// Extension always starts with a dot. Matching is case-insensitive.
	Extension string
	// Source is the file the settings were read from; empty for defaults.
	Source string
	// Strategy names the strategy that produced the settings.
	Strategy string
}

// Bindings are the two raw values every strategy extracts from a source.
type Bindings struct {
	ToolPaths []string
	Extension string
}

// Default returns the settings used when no configuration source exists:
// ~/packages searched for .rt files.
func Default(home string) *Settings {
	if home == "" {
		home = "."
	}
	dir, err := filepath.Abs(filepath.Join(home, branding.DefaultToolDir()))
	if err != nil {
		dir = filepath.Join(home, branding.DefaultToolDir())
	}
	return &Settings{
		SearchPaths: []string{dir},
		Extension:   branding.DefaultExtension(),
		Strategy:    "default",
	}
}

// NormalizeExtension trims ext and prepends a dot when missing.
func NormalizeExtension(ext string) (string, error) {
	ext = strings.TrimSpace(ext)
	if ext == "" || ext == "." {
		return "", fmt.Errorf("extension must not be empty")
	}
	if strings.ContainsAny(ext, `/\`) {
		return "", fmt.Errorf("extension %q must not contain a path separator", ext)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext, nil
}

// NormalizePath expands a leading ~ and resolves p against baseDir when it
// is relative. The result is cleaned.
func NormalizePath(p, baseDir string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(p))
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", p, err)
	}
	if expanded == "" {
		return "", fmt.Errorf("search path must not be empty")
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(baseDir, expanded)
	}
	return filepath.Clean(expanded), nil
}

// normalize turns raw bindings read from source into Settings.
func normalize(b Bindings, source, strategy string) (*Settings, error) {
	ext, err := NormalizeExtension(b.Extension)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(source)
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	paths := make([]string, 0, len(b.ToolPaths))
	for i, p := range b.ToolPaths {
		np, err := NormalizePath(p, baseDir)
		if err != nil {
			return nil, fmt.Errorf("tool_paths[%d]: %w", i, err)
		}
		paths = append(paths, np)
	}

	return &Settings{
		SearchPaths: paths,
		Extension:   ext,
		Source:      source,
		Strategy:    strategy,
	}, nil
}
