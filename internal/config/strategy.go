package config

import "context"

// Strategy reads the raw bindings out of one kind of configuration source.
type Strategy interface {
	// Name identifies the strategy in diagnostics.
	Name() string
	// Matches reports whether the strategy accepts the source at path.
	Matches(path string) bool
	// Load extracts both bindings or reports why it could not.
	Load(ctx context.Context, path string) (Bindings, error)
}

// DefaultStrategies returns the resolution chain in priority order.
func DefaultStrategies(script *ScriptStrategy) []Strategy {
	return []Strategy{
		DeclarativeStrategy{},
		script,
		LiteralStrategy{},
	}
}
