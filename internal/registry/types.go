package registry

import (
	"fmt"
	"sort"

	"github.com/reztools/rt/internal/descriptor"
)

// DiagnosticKind classifies a non-fatal discovery problem.
type DiagnosticKind string

const (
	KindMissingPath DiagnosticKind = "missing-path"
	KindParseError  DiagnosticKind = "parse-error"
	KindShadowed    DiagnosticKind = "shadowed"
	KindInheritance DiagnosticKind = "inheritance"
)

// Diagnostic is a non-fatal problem found during discovery.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Message string
	Err     error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Registry maps plugin names to descriptors. It is built fresh for every
// invocation.
type Registry struct {
	plugins     map[string]*descriptor.Descriptor
	Diagnostics []Diagnostic
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{plugins: make(map[string]*descriptor.Descriptor)}
}

// Add inserts d unless its name is taken, in which case d is recorded as
// shadowed and false is returned.
func (r *Registry) Add(d *descriptor.Descriptor) bool {
	if winner, ok := r.plugins[d.Name]; ok {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Kind:    KindShadowed,
			Path:    d.SourcePath,
			Message: fmt.Sprintf("plugin %q in %s is shadowed by %s", d.Name, d.SourcePath, winner.SourcePath),
		})
		return false
	}
	r.plugins[d.Name] = d
	return true
}

// ShadowByBuiltin removes the plugin called name because a built-in command
// owns that name.
func (r *Registry) ShadowByBuiltin(name string) {
	d, ok := r.plugins[name]
	if !ok {
		return
	}
	delete(r.plugins, name)
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:    KindShadowed,
		Path:    d.SourcePath,
		Message: fmt.Sprintf("plugin %q in %s is shadowed by the built-in command", name, d.SourcePath),
	})
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*descriptor.Descriptor, bool) {
	d, ok := r.plugins[name]
	return d, ok
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int { return len(r.plugins) }

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plugins returns the descriptors sorted by name.
func (r *Registry) Plugins() []*descriptor.Descriptor {
	names := r.Names()
	out := make([]*descriptor.Descriptor, len(names))
	for i, name := range names {
		out[i] = r.plugins[name]
	}
	return out
}
