package textutil

// cyrillicToLatin covers the Russian and Ukrainian alphabets. Hard and soft
// signs map to the empty string.
var cyrillicToLatin = map[rune]string{
	'А': "A", 'а': "a",
	'Б': "B", 'б': "b",
	'В': "V", 'в': "v",
	'Г': "G", 'г': "g",
	'Ґ': "G", 'ґ': "g",
	'Д': "D", 'д': "d",
	'Е': "E", 'е': "e",
	'Є': "Ye", 'є': "ye",
	'Ё': "Yo", 'ё': "yo",
	'Ж': "Zh", 'ж': "zh",
	'З': "Z", 'з': "z",
	'И': "I", 'и': "i",
	'І': "I", 'і': "i",
	'Ї': "Yi", 'ї': "yi",
	'Й': "Y", 'й': "y",
	'К': "K", 'к': "k",
	'Л': "L", 'л': "l",
	'М': "M", 'м': "m",
	'Н': "N", 'н': "n",
	'О': "O", 'о': "o",
	'П': "P", 'п': "p",
	'Р': "R", 'р': "r",
	'С': "S", 'с': "s",
	'Т': "T", 'т': "t",
	'У': "U", 'у': "u",
	'Ф': "F", 'ф': "f",
	'Х': "Kh", 'х': "kh",
	'Ц': "Ts", 'ц': "ts",
	'Ч': "Ch", 'ч': "ch",
	'Ш': "Sh", 'ш': "sh",
	'Щ': "Shch", 'щ': "shch",
	'Ъ': "", 'ъ': "",
	'Ы': "Y", 'ы': "y",
	'Ь': "", 'ь': "",
	'Э': "E", 'э': "e",
	'Ю': "Yu", 'ю': "yu",
	'Я': "Ya", 'я': "ya",
}

// Transliterate replaces every mapped Cyrillic rune in s with its Latin
// spelling. Unmapped runes are copied unchanged.
func Transliterate(s string) string {
	var b []byte
	for i, r := range s {
		latin, ok := cyrillicToLatin[r]
		if !ok {
			if b != nil {
				b = append(b, string(r)...)
			}
			continue
		}
		if b == nil {
			b = make([]byte, 0, len(s))
			b = append(b, s[:i]...)
		}
		b = append(b, latin...)
	}
	if b == nil {
		return s
	}
	return string(b)
}
