// Package descriptor parses and validates plugin descriptor files. A
// descriptor is a small YAML document naming the command to run, the rez
// packages it requires and whether it runs detached. Each file is validated
// against an embedded JSON schema and then checked for reserved names.
package descriptor
