// Package config defines the run configuration for icongen and the layered
// construction that produces it: built-in defaults, then an optional YAML
// config file, then environment-variable overrides, then CLI flags.
//
// The resulting Config is validated once at startup and treated as
// read-only for the rest of the run.
package config
