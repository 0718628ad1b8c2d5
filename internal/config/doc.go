// Package config resolves the rez-tools configuration source into Settings.
//
// A source is resolved through an ordered chain of strategies: a declarative
// reader for TOML/YAML/JSON files, a script strategy that evaluates Python
// sources with a real interpreter, and a restricted literal parser used when
// no interpreter is available. The first strategy that accepts the source and
// succeeds wins. Every strategy's output goes through the same normalization
// so one logical configuration yields the same search paths whichever
// strategy read it. Encode writes Settings back out in any supported dialect.
package config
