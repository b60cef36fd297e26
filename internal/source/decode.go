package source

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText turns a payload into text. A UTF-8 byte order mark is dropped; bytes that are
// not valid UTF-8 are read as Windows-1258, the legacy Vietnamese code page.
func DecodeText(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)

	if utf8.Valid(content) {
		return string(content)
	}

	decoded, _, err := transform.Bytes(charmap.Windows1258.NewDecoder(), content)
	if err != nil {
		return string(bytes.ToValidUTF8(content, []byte("\uFFFD")))
	}

	// Windows-1258 spells tone marks as combining characters.
	return norm.NFC.String(string(decoded))
}
