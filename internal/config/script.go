package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/reztools/rt/internal/logging"
)

// ErrInterpreterNotFound is returned by ScriptStrategy when none of its
// interpreters is on PATH.
var ErrInterpreterNotFound = errors.New("no python interpreter found")

// DefaultInterpreters are tried in order by ScriptStrategy.
var DefaultInterpreters = []string{"python", "python3", "py"}

const bindingsMarker = "__RT_BINDINGS__"

// extractScript executes the configuration at sys.argv[1] in a fresh scope
// and prints the two bindings as JSON after a marker line, so anything the
// configuration itself prints is ignored.
const extractScript = `import json, os, sys
path = sys.argv[1]
sys.path.insert(0, os.path.dirname(os.path.abspath(path)))
scope = {"__file__": path, "__name__": "__reztoolsconfig__"}
with open(path, "rb") as f:
    code = compile(f.read(), path, "exec")
exec(code, scope)
out = {}
if "tool_paths" in scope:
    tp = scope["tool_paths"]
    if isinstance(tp, (str, bytes)):
        raise TypeError("tool_paths must be a list, not a string")
    out["tool_paths"] = [os.fspath(p) for p in tp]
if "extension" in scope:
    out["extension"] = scope["extension"]
sys.stdout.write("\n" + "` + bindingsMarker + `" + "\n" + json.dumps(out))
`

// ScriptStrategy evaluates a Python configuration with a real interpreter.
type ScriptStrategy struct {
	Interpreters []string
	Timeout      time.Duration
}

// NewScriptStrategy returns a strategy trying python, python3 and py, or
// only override when it is set.
func NewScriptStrategy(override string, timeout time.Duration) *ScriptStrategy {
	interpreters := DefaultInterpreters
	if override != "" {
		interpreters = []string{override}
	}
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &ScriptStrategy{Interpreters: interpreters, Timeout: timeout}
}

func (s *ScriptStrategy) Name() string { return "script" }

func (s *ScriptStrategy) Matches(path string) bool {
	return matchesPython(path)
}

func (s *ScriptStrategy) Load(ctx context.Context, path string) (Bindings, error) {
	bin, err := s.interpreter()
	if err != nil {
		return Bindings{}, err
	}
	logging.From(ctx).Debug().Str("interpreter", bin).Str("source", path).Msg("evaluating python configuration")

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "-c", extractScript, path)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Bindings{}, fmt.Errorf("%s timed out after %s", bin, s.Timeout)
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return Bindings{}, fmt.Errorf("%s failed: %s", bin, msg)
		}
		return Bindings{}, fmt.Errorf("%s failed: %w", bin, err)
	}

	return decodeScriptOutput(stdout.String())
}

func (s *ScriptStrategy) interpreter() (string, error) {
	for _, name := range s.Interpreters {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrInterpreterNotFound, strings.Join(s.Interpreters, ", "))
}

type scriptOutput struct {
	ToolPaths *[]string `json:"tool_paths"`
	Extension *string   `json:"extension"`
}

func decodeScriptOutput(out string) (Bindings, error) {
	idx := strings.LastIndex(out, bindingsMarker)
	if idx < 0 {
		return Bindings{}, fmt.Errorf("interpreter produced no bindings")
	}
	payload := strings.TrimSpace(out[idx+len(bindingsMarker):])

	var decoded scriptOutput
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return Bindings{}, fmt.Errorf("decoding interpreter output: %w", err)
	}
	if decoded.ToolPaths == nil {
		return Bindings{}, fmt.Errorf("tool_paths is not set")
	}
	if decoded.Extension == nil {
		return Bindings{}, fmt.Errorf("extension is not set")
	}
	return Bindings{ToolPaths: *decoded.ToolPaths, Extension: *decoded.Extension}, nil
}

// matchesPython accepts .py sources and sources without a recognized
// declarative extension.
func matchesPython(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".py" {
		return true
	}
	_, declarative := declarativeTypes[ext]
	return !declarative
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
