// Package fileutil holds the filesystem primitives the organizer builds on:
// exclusive name claims, moves that survive crossing a filesystem boundary,
// and integrity-checked copies.
package fileutil
