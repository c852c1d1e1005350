// Package arabic provides the search normalization used by every list
// filter: diacritics are stripped and the alif/ya/hamza variants folded so
// that differently spelled names compare equal.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tashkeel covers tatweel, fathatan..sukun and the superscript alif.
var tashkeel = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0640, Hi: 0x0640, Stride: 1},
		{Lo: 0x064B, Hi: 0x0652, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
	},
}

func fold(r rune) rune {
	switch r {
	case 'إ', 'أ', 'آ':
		return 'ا'
	case 'ى':
		return 'ي'
	case 'ؤ':
		return 'و'
	case 'ئ':
		return 'ي'
	}
	return r
}

// Normalize returns the comparison form of s.
func Normalize(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(tashkeel)), runes.Map(fold))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Contains reports whether the normalized haystack contains the normalized
// query. An empty query matches everything.
func Contains(haystack, query string) bool {
	q := Normalize(query)
	if q == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), q)
}
