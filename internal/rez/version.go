package rez

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// MinimumVersion is the oldest rez release known to work.
var MinimumVersion = semver.MustParse("2.0.0")

const versionTimeout = 10 * time.Second

var versionPattern = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?`)

// VersionInfo is the parsed output of "rez --version".
type VersionInfo struct {
	Raw       string
	Version   *semver.Version
	Supported bool
}

// ProbeVersion runs "rez --version" and parses the result.
func ProbeVersion(ctx context.Context, c Command) (*VersionInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	args := append(append([]string{}, c.Prefix[1:]...), "--version")
	out, err := exec.CommandContext(ctx, c.Program(), args...).CombinedOutput()
	raw := strings.TrimSpace(string(out))
	if err != nil {
		if raw != "" {
			return nil, fmt.Errorf("running %s --version: %w: %s", c.Program(), err, raw)
		}
		return nil, fmt.Errorf("running %s --version: %w", c.Program(), err)
	}

	v, err := ParseVersion(raw)
	if err != nil {
		return nil, err
	}
	return &VersionInfo{Raw: raw, Version: v, Supported: !v.LessThan(MinimumVersion)}, nil
}

// ParseVersion extracts the first version number from rez's output, e.g.
// "Rez 2.113.0".
func ParseVersion(out string) (*semver.Version, error) {
	match := versionPattern.FindString(out)
	if match == "" {
		return nil, fmt.Errorf("no version number in %q", out)
	}
	v, err := parseSemver(match)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", match, err)
	}
	return v, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
