// Package preflight validates a sort root before anything is mutated.
//
// The organizer refuses to start unless the root exists, is a directory, and
// is readable, writable and searchable by the current user. Failing early
// keeps an unusable root from producing a half-sorted tree.
package preflight
