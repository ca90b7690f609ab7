// Package config loads and merges fieldstore configuration from
// environment variables, command-line flags, an optional JSON file and
// built-in defaults, in that order of precedence.
//
// The merged [StructuredConfig] is the single source of truth for both
// binaries; [GetAgentConfig] derives the narrower view the on-device
// sync agent needs.
package config
