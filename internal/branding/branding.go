// Package branding provides compile-time identity values for the CLI.
//
// Values come from branding.yaml, embedded at build time. Anything missing
// from the file falls back to the hard defaults below.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	EnvPrefix        string `yaml:"env_prefix"`
	ConfigBaseName   string `yaml:"config_base_name"`
	DefaultExtension string `yaml:"default_extension"`
	DefaultToolDir   string `yaml:"default_tool_dir"`
	GitHubRepo       string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "rt",
			DisplayName:      "rez-tools",
			Description:      "A suite tool command line for rez",
			EnvPrefix:        "REZ_TOOL",
			ConfigBaseName:   "reztoolsconfig",
			DefaultExtension: ".rt",
			DefaultToolDir:   "packages",
			GitHubRepo:       "reztools/rt",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "rt").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "REZ_TOOL").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ConfigBaseName returns the file name, without extension, of the default
// configuration candidates in the user's home directory.
func ConfigBaseName() string { load(); return defaults.ConfigBaseName }

// DefaultExtension returns the descriptor extension used when no
// configuration file is found.
func DefaultExtension() string { load(); return defaults.DefaultExtension }

// DefaultToolDir returns the home-relative search path used when no
// configuration file is found.
func DefaultToolDir() string { load(); return defaults.DefaultToolDir }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("CONFIG") → "REZ_TOOL_CONFIG".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
