package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceMissing is the Kind of an Error whose source file does not exist.
	ErrSourceMissing = errors.New("configuration source not found")
	// ErrAllStrategiesFailed is the Kind of an Error where every strategy
	// accepting the source failed.
	ErrAllStrategiesFailed = errors.New("all configuration strategies failed")
)

// Attempt records one strategy that was tried and why it failed.
type Attempt struct {
	Strategy string
	Err      error
}

// Error is returned when no Settings could be produced. errors.Is matches
// it against its Kind.
type Error struct {
	Source   string
	Kind     error
	Attempts []Attempt
	// Err is the underlying cause for ErrSourceMissing.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Source)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if errors.Is(e.Kind, ErrAllStrategiesFailed) && len(e.Attempts) == 0 {
		b.WriteString(": no strategy accepts this source")
	}
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Strategy, a.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
