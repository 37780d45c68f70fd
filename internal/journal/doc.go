// Package journal keeps a SQLite record of organizer runs and the outcome of
// every file each run touched.
//
// The journal lives outside the organized tree (by default
// <log_dir>/journal.db) so a run never classifies its own bookkeeping.
// Writes are safe to issue from many goroutines; SQLITE_BUSY is retried with
// a short backoff. Schema changes bump schemaVersion in schema.go; users
// delete the database to adopt the new schema.
package journal
