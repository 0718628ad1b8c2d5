package descriptor

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Parse reads the descriptor at path. ext is the configured descriptor
// extension; the plugin name defaults to the file name without it. Every
// failure is a *ParseError.
func Parse(fsys afero.Fs, path, ext string) (*Descriptor, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("reading file: %v", err), Err: err}
	}
	return ParseBytes(data, path, ext)
}

// ParseBytes parses descriptor content that was read from path.
func ParseBytes(data []byte, path, ext string) (*Descriptor, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Field: "command", Reason: "file is empty"}
	}

	doc, ok := normalizeYAML(raw).(map[string]interface{})
	if !ok {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("expected a mapping, got %T", raw)}
	}
	// Null fields count as absent.
	for k, v := range doc {
		if v == nil {
			delete(doc, k)
		}
	}

	result, err := Validate(doc)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error(), Err: err}
	}
	if !result.Valid {
		first := result.Issues[0]
		reasons := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			reasons = append(reasons, issue.Message)
		}
		return nil, &ParseError{Path: path, Field: first.Field(), Reason: strings.Join(reasons, "; ")}
	}

	d, err := parseTyped[Descriptor](data, path)
	if err != nil {
		return nil, err
	}
	d.SourcePath = path
	if d.Requires == nil {
		d.Requires = []string{}
	}

	if strings.TrimSpace(d.Command) == "" {
		return nil, &ParseError{Path: path, Field: "command", Reason: "must not be empty"}
	}
	if d.Name == "" {
		d.Name = stem(path, ext)
		if d.Name == "" {
			return nil, &ParseError{Path: path, Field: "name", Reason: "cannot derive a name from the file name"}
		}
	} else if !namePattern.MatchString(d.Name) {
		return nil, &ParseError{Path: path, Field: "name", Reason: fmt.Sprintf("%q is not a valid plugin name", d.Name)}
	}
	if IsReserved(d.Name) {
		return nil, &ParseError{Path: path, Field: "name", Reason: fmt.Sprintf("%q is reserved for a control flag", d.Name)}
	}

	return d, nil
}

// parseTyped unmarshals YAML data into a typed struct.
func parseTyped[T any](data []byte, path string) (*T, error) {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("decoding: %v", err), Err: err}
	}
	return &v, nil
}

// stem returns the base name of path without ext, compared
// case-insensitively.
func stem(path, ext string) string {
	base := filepath.Base(path)
	if ext != "" && len(base) >= len(ext) && strings.EqualFold(base[len(base)-len(ext):], ext) {
		return base[:len(base)-len(ext)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
