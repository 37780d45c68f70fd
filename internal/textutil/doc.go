// Package textutil provides the file name normalization used when files are
// filed into category folders.
//
// NormalizeStem turns an arbitrary stem into a filesystem-safe one in two
// ordered passes: every rune that is neither a letter nor a number becomes an
// underscore, then Cyrillic letters are transliterated to Latin. Input is
// composed to NFC first so decomposed names (as written by some filesystems)
// keep their letters intact.
package textutil
