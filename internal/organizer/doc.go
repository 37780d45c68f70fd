// Package organizer sorts the files under a root directory into category
// folders.
//
// A run walks the tree concurrently. Every directory and every file becomes a
// unit on a bounded task group; walking units dispatch further units for their
// children, file units classify the file, normalize its name, claim a
// collision-free destination and move it (or, for archives, extract it). Once
// every unit has finished the root is cleaned of anything that is not a
// category folder.
//
// Destination names are claimed atomically on the filesystem, so two units
// with the same normalized name never write to the same path. Per-file
// outcomes feed the run Summary and, when configured, the SQLite journal.
package organizer
