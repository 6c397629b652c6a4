// Package manifest loads dependency manifests.
//
// A manifest is a named, ordered set of package requirements. It is either
// a file (pip requirements, TOML, YAML, JSON with comments, or a NuGet-style
// XML package list) or an inline list declared in envboot.toml. File paths
// are resolved against the project root.
package manifest
