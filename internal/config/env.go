package config

import (
	"strings"
	"time"

	"github.com/reztools/rt/internal/branding"
	"github.com/spf13/viper"
)

// Environment keys, read through Env. With the REZ_TOOL prefix "config"
// maps to REZ_TOOL_CONFIG and so on.
const (
	KeyConfig        = "config"
	KeyConfigTimeout = "config_timeout"
	KeyPython        = "python"
	KeyRezCommand    = "rez_command"
	KeyRezPath       = "rez_path"
)

// DefaultScriptTimeout bounds how long a Python configuration may run.
const DefaultScriptTimeout = 5 * time.Second

// NewEnv returns a viper instance bound to the process environment. Values
// are looked up when requested, so later os.Setenv calls are visible.
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// REZ_PATH is rez's own variable and carries no prefix.
	_ = v.BindEnv(KeyRezPath, "REZ_PATH")
	v.SetDefault(KeyConfigTimeout, DefaultScriptTimeout.String())
	return v
}

// ScriptTimeout returns the configured script timeout, a Go duration such as
// "10s". Unset, unparsable, unitless and non-positive values fall back to the
// default.
func ScriptTimeout(env *viper.Viper) time.Duration {
	raw := strings.TrimSpace(env.GetString(KeyConfigTimeout))
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return DefaultScriptTimeout
	}
	return d
}
