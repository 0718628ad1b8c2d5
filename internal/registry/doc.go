// Package registry discovers plugin descriptors on the configured search
// paths and assembles them into a Registry.
//
// Discovery scans each search path in order, lists the matching files of
// every directory alphabetically, parses the files concurrently and merges
// the results sequentially in scan order. The first descriptor seen for a
// name wins; later ones are reported as shadowed. Nothing found during
// discovery aborts it: missing paths, broken files and duplicates all become
// diagnostics.
package registry
