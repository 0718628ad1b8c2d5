package rez

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/reztools/rt/internal/branding"
	"github.com/reztools/rt/internal/config"
	"github.com/reztools/rt/internal/logging"
	"github.com/reztools/rt/internal/platform"
	"github.com/spf13/viper"
)

// Command is the argument prefix that starts rez, e.g. ["/usr/bin/rez"] or
// ["/opt/python/bin/python3", "-m", "rez"].
type Command struct {
	Prefix []string
	// Origin says where the prefix came from, for diagnostics.
	Origin string
}

// Program returns the executable that will be spawned.
func (c Command) Program() string { return c.Prefix[0] }

// Locate finds rez. REZ_TOOL_REZ_COMMAND wins, then REZ_PATH, then rez on
// PATH. When nothing is found the bare name "rez" is returned and the spawn
// itself reports the failure.
func Locate(ctx context.Context, env *viper.Viper) (Command, error) {
	log := logging.From(ctx)

	if raw := strings.TrimSpace(env.GetString(config.KeyRezCommand)); raw != "" {
		args, err := platform.Split(raw)
		if err != nil {
			return Command{}, fmt.Errorf("parsing %s: %w", branding.EnvVar(config.KeyRezCommand), err)
		}
		if len(args) == 0 {
			return Command{}, fmt.Errorf("%s is empty", branding.EnvVar(config.KeyRezCommand))
		}
		return Command{Prefix: args, Origin: branding.EnvVar(config.KeyRezCommand)}, nil
	}

	if p := env.GetString(config.KeyRezPath); p != "" {
		if exe, ok := fromRezPath(p); ok {
			return commandFor(exe, "REZ_PATH"), nil
		}
		log.Warn().Str("REZ_PATH", p).Msg("REZ_PATH does not point to a rez executable, ignoring it")
	}

	if p, err := exec.LookPath("rez"); err == nil {
		return commandFor(p, "PATH"), nil
	}

	log.Debug().Msg("rez not found on PATH")
	return Command{Prefix: []string{"rez"}, Origin: "default"}, nil
}

// fromRezPath accepts either the executable itself or a directory holding it.
func fromRezPath(p string) (string, bool) {
	info, err := os.Stat(p)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		return p, true
	}
	names := []string{"rez"}
	if runtime.GOOS == "windows" {
		names = []string{"rez.exe", "rez.bat", "rez"}
	}
	for _, name := range names {
		candidate := filepath.Join(p, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// commandFor runs a python interpreter as "python -m rez".
func commandFor(exe, origin string) Command {
	if isPython(exe) {
		return Command{Prefix: []string{exe, "-m", "rez"}, Origin: origin}
	}
	return Command{Prefix: []string{exe}, Origin: origin}
}

func isPython(exe string) bool {
	base := strings.ToLower(filepath.Base(exe))
	base = strings.TrimSuffix(base, ".exe")
	return strings.HasPrefix(base, "python")
}
