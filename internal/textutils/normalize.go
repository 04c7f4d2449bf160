// Package textutils holds the single string normalisation used wherever the
// ledger compares user-entered names: categories, classes, courses, students.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dashReplacer = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2212", "-", // minus sign
)

// StripDiacritics removes combining marks after compatibility decomposition,
// so "Catégorie" becomes "Categorie". Case is preserved.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize folds s into its comparison form: dash and space variants unified,
// whitespace collapsed, diacritics stripped, lower-cased.
func Normalize(s string) string {
	s = dashReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(StripDiacritics(s))
}

// Equal compares two names in normalised form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// CleanHeader trims a column header and puts it in NFC form.
func CleanHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}

// CanonicalHeader maps h onto one of the accent-insensitive canonical names
// when they match in normalised form; otherwise it returns the cleaned h.
func CanonicalHeader(h string, accentInsensitive []string) string {
	cleaned := CleanHeader(h)
	if len(accentInsensitive) == 0 {
		return cleaned
	}
	folded := Normalize(cleaned)
	for _, canonical := range accentInsensitive {
		if Normalize(canonical) == folded {
			return canonical
		}
	}
	return cleaned
}
