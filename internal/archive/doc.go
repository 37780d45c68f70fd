// Package archive extracts zip, tar, gzip-compressed tar and plain gzip files
// into a destination directory.
//
// The format is detected from the file contents, never from the name, so a
// file called "report.zip" that is really a PDF is rejected with
// ErrUnsupportedFormat. Entries that would land outside the destination are
// rejected with ErrUnsafePath; links and device nodes are skipped.
package archive
