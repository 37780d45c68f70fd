// Package category maps file extensions to the fixed set of destination
// folders used by the organizer.
//
// The table is immutable and ordered; lookups are case-insensitive and total,
// falling back to Other when no category claims an extension. Category names
// double as the protected folder names at the top of a sorted root.
package category
