//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // HOME, holds reztoolsconfig.* and packages/
	StudioDir string // shared studio plugin directory
	ProjDir   string // per-show plugin directory, searched first
	RezPath   string // fake rez executable
}

// fakeRez prints each argument on its own line between markers, then runs
// whatever follows "--".
const fakeRez = `#!/bin/sh
echo "BEGIN-REZ"
for a in "$@"; do echo "[$a]"; done
echo "END-REZ"
while [ $# -gt 0 ] && [ "$1" != "--" ]; do shift; done
shift
exec "$@"
`

// setupTestEnv creates isolated directories and points HOME, REZ_TOOL_* and
// REZ_PATH at them. The variables are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake rez is a shell script")
	}

	env := &testEnv{
		HomeDir:   t.TempDir(),
		StudioDir: t.TempDir(),
		ProjDir:   t.TempDir(),
	}
	env.RezPath = filepath.Join(t.TempDir(), "rez")
	writeFile(t, env.RezPath, fakeRez)
	if err := os.Chmod(env.RezPath, 0o755); err != nil {
		t.Fatalf("chmod fake rez: %v", err)
	}

	homedir.DisableCache = true
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)
	t.Setenv("REZ_TOOL_CONFIG", "")
	t.Setenv("REZ_TOOL_REZ_COMMAND", "")
	t.Setenv("REZ_TOOL_PYTHON", "")
	t.Setenv("REZ_PATH", env.RezPath)
	t.Setenv("REZ_TOOL_LOG_NOCOLOR", "1")
	return env
}

// setupPlugins writes a studio and a show plugin directory where "maya"
// exists in both.
func setupPlugins(t *testing.T, env *testEnv) {
	t.Helper()
	writeFile(t, filepath.Join(env.ProjDir, "maya.rt"), `command: maya
short_help: Maya for this show
requires:
  - maya-2023
  - show_tools
`)
	writeFile(t, filepath.Join(env.StudioDir, "maya.rt"), "command: mayapy\n")
	writeFile(t, filepath.Join(env.StudioDir, "nuke.rt"), `name: nuke
command: Nuke13.2
requires: [nuke-13]
run_detached: true
`)
	writeFile(t, filepath.Join(env.StudioDir, "broken.rt"), "command: [not, a, string]\n")
	writeFile(t, filepath.Join(env.StudioDir, "README.md"), "not a plugin\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// rezArgs extracts the arguments the fake rez received.
func rezArgs(t *testing.T, stdout string) []string {
	t.Helper()
	start := strings.Index(stdout, "BEGIN-REZ\n")
	end := strings.Index(stdout, "END-REZ\n")
	if start < 0 || end < start {
		t.Fatalf("fake rez did not run, stdout:\n%s", stdout)
	}
	var args []string
	for _, line := range strings.Split(strings.TrimSpace(stdout[start+len("BEGIN-REZ\n"):end]), "\n") {
		if line == "" {
			continue
		}
		args = append(args, strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
	}
	return args
}
