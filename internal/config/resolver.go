package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/reztools/rt/internal/branding"
	"github.com/reztools/rt/internal/logging"
	"github.com/spf13/viper"
)

// candidateExtensions are probed in order next to the home directory when no
// source is named in the environment.
var candidateExtensions = []string{".py", ".toml", ".yaml", ".yml", ".json"}

// Resolver locates the configuration source and turns it into Settings.
type Resolver struct {
	Env        *viper.Viper
	Strategies []Strategy
	// HomeDir defaults to homedir.Dir.
	HomeDir func() (string, error)
}

// NewResolver returns a resolver reading the process environment with the
// default strategy chain.
func NewResolver(env *viper.Viper) *Resolver {
	if env == nil {
		env = NewEnv()
	}
	script := NewScriptStrategy(env.GetString(KeyPython), ScriptTimeout(env))
	return &Resolver{
		Env:        env,
		Strategies: DefaultStrategies(script),
		HomeDir:    homedir.Dir,
	}
}

// Resolve reads the source named by REZ_TOOL_CONFIG, else the first
// ~/reztoolsconfig.* candidate, else returns the defaults.
func (r *Resolver) Resolve(ctx context.Context) (*Settings, error) {
	log := logging.From(ctx)

	if src := r.Env.GetString(KeyConfig); src != "" {
		log.Debug().Str("source", src).Msg("configuration named by environment")
		return r.ResolveFile(ctx, src)
	}

	home, err := r.home()
	if err != nil {
		log.Warn().Err(err).Msg("cannot determine home directory")
		return Default(""), nil
	}
	for _, ext := range candidateExtensions {
		p := filepath.Join(home, branding.ConfigBaseName()+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			log.Debug().Str("source", p).Msg("configuration found in home directory")
			return r.ResolveFile(ctx, p)
		}
	}

	log.Debug().Msg("no configuration source, using defaults")
	return Default(home), nil
}

// ResolveFile runs the strategy chain over one source file.
func (r *Resolver) ResolveFile(ctx context.Context, source string) (*Settings, error) {
	log := logging.From(ctx)

	expanded, err := homedir.Expand(source)
	if err != nil {
		return nil, &Error{Source: source, Kind: ErrSourceMissing, Err: err}
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return nil, &Error{Source: expanded, Kind: ErrSourceMissing, Err: err}
	}
	if info.IsDir() {
		return nil, &Error{Source: expanded, Kind: ErrSourceMissing, Err: fmt.Errorf("%w: is a directory", fs.ErrInvalid)}
	}

	var attempts []Attempt
	for _, s := range r.Strategies {
		if !s.Matches(expanded) {
			continue
		}
		b, err := s.Load(ctx, expanded)
		if err == nil {
			var settings *Settings
			settings, err = normalize(b, expanded, s.Name())
			if err == nil {
				log.Debug().
					Str("strategy", s.Name()).
					Strs("search_paths", settings.SearchPaths).
					Str("extension", settings.Extension).
					Msg("configuration resolved")
				return settings, nil
			}
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.Debug().Str("strategy", s.Name()).Err(err).Msg("strategy failed")
		attempts = append(attempts, Attempt{Strategy: s.Name(), Err: err})
	}

	return nil, &Error{Source: expanded, Kind: ErrAllStrategiesFailed, Attempts: attempts}
}

func (r *Resolver) home() (string, error) {
	if r.HomeDir != nil {
		return r.HomeDir()
	}
	return homedir.Dir()
}
