package utils

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dStroke is not a combining sequence, so NFD leaves it alone.
var dStroke = strings.NewReplacer("đ", "d", "Đ", "d")

// Fold lower-cases s, trims it and strips diacritics so that "Xét Nghiệm" and "xet nghiem" compare equal.
func Fold(s string) string {
	s = dStroke.Replace(strings.ToLower(strings.TrimSpace(s)))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}

// NormalizeWhitespace trims s and collapses inner whitespace runs to a single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateWidth shortens str to at most maxWidth display cells, appending "..." when cut.
func TruncateWidth(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}
