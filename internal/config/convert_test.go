package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out.toml": FormatTOML,
		"out.YAML": FormatYAML,
		"out.yml":  FormatYAML,
		"out.json": FormatJSON,
		"out.py":   FormatPython,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("out.ini")
	assert.Error(t, err)
}

func TestEncodePython(t *testing.T) {
	var buf bytes.Buffer
	s := &Settings{SearchPaths: []string{`C:\tools`, `/a "quoted"`}, Extension: ".rt"}
	require.NoError(t, Encode(&buf, s, FormatPython))

	want := `# rez-tools configuration
tool_paths = [
    "C:\\tools",
    "/a \"quoted\"",
]
extension = ".rt"
`
	assert.Equal(t, want, buf.String())
}

func TestEncode_EmptySearchPaths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Settings{Extension: ".rt"}, FormatJSON))
	assert.Contains(t, buf.String(), `"tool_paths": []`)
}

// TestEncodeRoundTrip checks that every dialect Encode writes resolves back
// to the same settings.
func TestEncodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := noPython(t, dir)
	formats := []Format{FormatTOML, FormatYAML, FormatJSON, FormatPython}
	n := 0

	rapid.Check(t, func(rt *rapid.T) {
		segment := rapid.StringMatching(`[a-zA-Z0-9]([a-zA-Z0-9 _'"-]{0,6}[a-zA-Z0-9])?`)
		paths := rapid.SliceOfN(rapid.Custom(func(rt *rapid.T) string {
			segs := rapid.SliceOfN(segment, 1, 3).Draw(rt, "segments")
			return filepath.Join(append([]string{dir}, segs...)...)
		}), 0, 4).Draw(rt, "paths")
		ext := "." + rapid.StringMatching(`[a-z][a-z0-9_]{0,5}`).Draw(rt, "ext")
		format := rapid.SampledFrom(formats).Draw(rt, "format")

		in := &Settings{SearchPaths: paths, Extension: ext}
		var buf bytes.Buffer
		if err := Encode(&buf, in, format); err != nil {
			rt.Fatalf("encode: %v", err)
		}

		n++
		src := filepath.Join(dir, fmt.Sprintf("cfg%d.%s", n, format))
		if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
			rt.Fatalf("write: %v", err)
		}

		out, err := r.ResolveFile(context.Background(), src)
		if err != nil {
			rt.Fatalf("resolve %s:\n%s\n%v", format, buf.String(), err)
		}
		if strings.Join(out.SearchPaths, "\x00") != strings.Join(in.SearchPaths, "\x00") {
			rt.Fatalf("search paths: got %q, want %q", out.SearchPaths, in.SearchPaths)
		}
		if out.Extension != in.Extension {
			rt.Fatalf("extension: got %q, want %q", out.Extension, in.Extension)
		}
	})
}
