package config

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Format is a configuration dialect Encode can write.
type Format string

const (
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatPython Format = "py"
)

// FormatFromPath picks the dialect from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".py":
		return FormatPython, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want .toml, .yaml, .yml, .json or .py)", filepath.Ext(path))
	}
}

type document struct {
	ToolPaths []string `toml:"tool_paths" yaml:"tool_paths" json:"tool_paths"`
	Extension string   `toml:"extension" yaml:"extension" json:"extension"`
}

const header = "rez-tools configuration"

// Encode writes s in format f. Reading the output back yields the same
// search paths and extension.
func Encode(w io.Writer, s *Settings, f Format) error {
	doc := document{ToolPaths: s.SearchPaths, Extension: s.Extension}
	if doc.ToolPaths == nil {
		doc.ToolPaths = []string{}
	}

	var (
		out []byte
		err error
	)
	switch f {
	case FormatTOML:
		out, err = toml.Marshal(doc)
		out = append([]byte("# "+header+"\n"), out...)
	case FormatYAML:
		out, err = yaml.Marshal(doc)
		out = append([]byte("# "+header+"\n"), out...)
	case FormatJSON:
		out, err = json.MarshalIndent(doc, "", "  ")
		out = append(out, '\n')
	case FormatPython:
		out = encodePython(doc)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}
	_, err = w.Write(out)
	return err
}

func encodePython(doc document) []byte {
	var b strings.Builder
	b.WriteString("# " + header + "\n")
	b.WriteString("tool_paths = [\n")
	for _, p := range doc.ToolPaths {
		b.WriteString("    " + pyQuote(p) + ",\n")
	}
	b.WriteString("]\n")
	b.WriteString("extension = " + pyQuote(doc.Extension) + "\n")
	return []byte(b.String())
}

// pyQuote renders s as a double-quoted Python string literal.
func pyQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
