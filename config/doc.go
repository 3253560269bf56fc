// Package config loads and validates the application configuration
// from YAML. The loaded value is explicit and immutable by convention:
// callers pass it down rather than reading package state.
package config
