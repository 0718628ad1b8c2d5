package descriptor

import "fmt"

// ParseError reports why one descriptor file was rejected. Field is empty
// when the failure is not tied to a single field.
type ParseError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
