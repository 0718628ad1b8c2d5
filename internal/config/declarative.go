package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var declarativeTypes = map[string]string{
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
}

// DeclarativeStrategy reads TOML, YAML and JSON sources through viper.
type DeclarativeStrategy struct{}

func (DeclarativeStrategy) Name() string { return "declarative" }

func (DeclarativeStrategy) Matches(path string) bool {
	_, ok := declarativeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (DeclarativeStrategy) Load(_ context.Context, path string) (Bindings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(declarativeTypes[strings.ToLower(filepath.Ext(path))])
	if err := v.ReadInConfig(); err != nil {
		return Bindings{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var b Bindings
	raw := v.Get("tool_paths")
	if raw == nil {
		return Bindings{}, fmt.Errorf("tool_paths is not set")
	}
	items, ok := raw.([]interface{})
	if !ok {
		return Bindings{}, fmt.Errorf("tool_paths must be a list of strings, got %T", raw)
	}
	b.ToolPaths = make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return Bindings{}, fmt.Errorf("tool_paths[%d] must be a string, got %T", i, item)
		}
		b.ToolPaths = append(b.ToolPaths, s)
	}

	rawExt := v.Get("extension")
	if rawExt == nil {
		return Bindings{}, fmt.Errorf("extension is not set")
	}
	ext, ok := rawExt.(string)
	if !ok {
		return Bindings{}, fmt.Errorf("extension must be a string, got %T", rawExt)
	}
	b.Extension = ext
	return b, nil
}
