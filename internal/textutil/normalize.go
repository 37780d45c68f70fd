package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeStem maps a raw file stem to a filesystem-safe, transliterated stem.
//
// Input is composed to NFC first, so a letter written as base rune plus
// combining mark is treated as the single precomposed letter instead of
// leaving '_' in place of the mark.
//
// The passes run in a fixed order: runes that are neither letters nor numbers
// become '_' first, and only then are Cyrillic letters transliterated. Cyrillic
// letters are alphanumeric, so they survive the first pass and are consumed by
// the second.
func NormalizeStem(stem string) string {
	return Transliterate(ReplaceNonAlphanumeric(norm.NFC.String(stem)))
}

// ReplaceNonAlphanumeric replaces every rune that is not a Unicode letter or
// number with an underscore. Multi-byte runes count as one character.
func ReplaceNonAlphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, s)
}
