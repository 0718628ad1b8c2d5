//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/reztools/rt/internal/config"
	"github.com/reztools/rt/internal/registry"
	"github.com/reztools/rt/internal/rez"
	"github.com/reztools/rt/internal/runtime"
	"github.com/spf13/afero"
)

// TestPipeline drives the whole flow through the library packages:
// resolve configuration -> discover plugins -> locate rez -> build -> run.
func TestPipeline(t *testing.T) {
	env := setupTestEnv(t)
	setupPlugins(t, env)

	// Step 1: a TOML configuration in the home directory, with a relative
	// path resolved against the home directory.
	writeFile(t, filepath.Join(env.HomeDir, "reztoolsconfig.toml"), `tool_paths = ["`+env.ProjDir+`", "`+env.StudioDir+`", "missing"]
extension = "rt"
`)

	ctx := context.Background()
	vars := config.NewEnv()
	settings, err := config.NewResolver(vars).Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantPaths := []string{env.ProjDir, env.StudioDir, filepath.Join(env.HomeDir, "missing")}
	if !slices.Equal(settings.SearchPaths, wantPaths) || settings.Extension != ".rt" {
		t.Fatalf("settings = %+v, want paths %v", settings, wantPaths)
	}

	// Step 2: discovery survives the broken file and the missing path.
	reg, err := registry.Discover(ctx, afero.NewOsFs(), settings)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := reg.Names(); !slices.Equal(got, []string{"maya", "nuke"}) {
		t.Fatalf("Names = %v", got)
	}
	kinds := map[registry.DiagnosticKind]int{}
	for _, d := range reg.Diagnostics {
		kinds[d.Kind]++
	}
	if kinds[registry.KindMissingPath] != 1 || kinds[registry.KindParseError] != 1 || kinds[registry.KindShadowed] != 1 {
		t.Errorf("diagnostics = %v", reg.Diagnostics)
	}

	maya, _ := reg.Lookup("maya")
	if maya.Command != "maya" || maya.SourcePath != filepath.Join(env.ProjDir, "maya.rt") {
		t.Errorf("maya = %+v, want the show descriptor", maya)
	}

	// Step 3: rez is found through REZ_PATH.
	rezCmd, err := rez.Locate(ctx, vars)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !slices.Equal(rezCmd.Prefix, []string{env.RezPath}) {
		t.Errorf("rez prefix = %v", rezCmd.Prefix)
	}

	// Step 4: replace the plugin command and run it attached.
	plan, err := rez.Builder{Rez: rezCmd}.Build(maya, []string{"sh", "-c", "echo ran; exit 3"}, rez.Flags{IgnoreCmd: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var stdout bytes.Buffer
	exe := &runtime.Executor{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &bytes.Buffer{}}
	res, err := exe.Run(ctx, plan.Invocation)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	want := []string{"env", "-q", "maya-2023", "show_tools", "--", "sh", "-c", "echo ran; exit 3"}
	if got := rezArgs(t, stdout.String()); !slices.Equal(got, want) {
		t.Errorf("rez args = %q, want %q", got, want)
	}
	if !strings.HasSuffix(stdout.String(), "ran\n") {
		t.Errorf("trailing command did not run:\n%s", stdout.String())
	}
}

// TestPipeline_SameConfigEveryDialect checks that each configuration
// dialect yields identical settings for the same logical configuration.
func TestPipeline_SameConfigEveryDialect(t *testing.T) {
	env := setupTestEnv(t)
	// No interpreter: the .py source is read by the restricted parser.
	t.Setenv("REZ_TOOL_PYTHON", filepath.Join(env.HomeDir, "no-python"))

	sources := map[string]string{
		"cfg.py":   "tool_paths = ['~/tools', 'relative']\nextension = '.rt'\n",
		"cfg.toml": "tool_paths = ['~/tools', 'relative']\nextension = '.rt'\n",
		"cfg.yaml": "tool_paths: ['~/tools', 'relative']\nextension: .rt\n",
		"cfg.json": `{"tool_paths": ["~/tools", "relative"], "extension": ".rt"}`,
	}
	want := []string{filepath.Join(env.HomeDir, "tools"), filepath.Join(env.HomeDir, "relative")}

	r := config.NewResolver(config.NewEnv())
	for name, content := range sources {
		path := filepath.Join(env.HomeDir, name)
		writeFile(t, path, content)
		s, err := r.ResolveFile(context.Background(), path)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !slices.Equal(s.SearchPaths, want) || s.Extension != ".rt" {
			t.Errorf("%s: settings = %+v, want paths %v", name, s, want)
		}
	}
}
