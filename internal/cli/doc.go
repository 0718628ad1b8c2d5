// Package cli defines the Cobra command tree for rt. Each file in this
// package builds one command; every discovered plugin also becomes a
// command of its own. Command implementations delegate to internal packages
// for the pipeline and only handle argument handling, output formatting and
// exit codes.
package cli
