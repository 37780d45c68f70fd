// Package config loads, normalizes, and validates sorter configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours SORTER_* environment overrides. The Config type
// centralizes the knobs the CLI and the organizer engine need: the log and
// journal locations, worker limits, and the failure policy applied when a
// single relocation fails.
package config
