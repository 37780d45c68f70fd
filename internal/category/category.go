package category

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category names, in table order.
const (
	Images    = "images"
	Video     = "video"
	Documents = "documents"
	Audio     = "audio"
	Archives  = "archives"
	Other     = "other"
)

// Category is one row of the classification table.
type Category struct {
	Name       string
	Extensions []string // upper-cased, without the leading dot
}

var table = [...]Category{
	{Name: Images, Extensions: []string{"JPEG", "PNG", "JPG", "SVG"}},
	{Name: Video, Extensions: []string{"AVI", "MP4", "MOV", "MKV"}},
	{Name: Documents, Extensions: []string{"DOC", "DOCX", "TXT", "PDF", "XLSX", "PPTX"}},
	{Name: Audio, Extensions: []string{"MP3", "OGG", "WAV", "AMR"}},
	{Name: Archives, Extensions: []string{"ZIP", "GZ", "TAR"}},
	{Name: Other},
}

// Classify returns the category owning suffix (".jpg", "PDF", ...). The first
// matching row in table order wins; Other is returned when nothing matches,
// including for an empty suffix.
func Classify(suffix string) string {
	ext := strings.TrimPrefix(suffix, ".")
	if ext == "" {
		return Other
	}
	ext = cases.Upper(language.Und).String(ext)
	for _, c := range table {
		for _, candidate := range c.Extensions {
			if candidate == ext {
				return c.Name
			}
		}
	}
	return Other
}

// Table returns a copy of the classification table in declaration order.
func Table() []Category {
	out := make([]Category, len(table))
	for i, c := range table {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// Names returns the category names in table order.
func Names() []string {
	names := make([]string, len(table))
	for i, c := range table {
		names[i] = c.Name
	}
	return names
}

// IsCategory reports whether name is one of the protected category folder names.
func IsCategory(name string) bool {
	for _, c := range table {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Extensions returns the extensions owned by the named category, or nil for
// Other and unknown names.
func Extensions(name string) []string {
	for _, c := range table {
		if c.Name == name {
			return append([]string(nil), c.Extensions...)
		}
	}
	return nil
}
