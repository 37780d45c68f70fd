// Package logging assembles the structured slog loggers used by the sorter CLI
// and the organizer engine.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (terminal plus an optional JSON log file under the configured log
// directory). Context helpers tag every line emitted by a relocation unit with
// the run identifier and the unit sequence number so interleaved output from
// concurrent units can be told apart.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits the same field names.
package logging
