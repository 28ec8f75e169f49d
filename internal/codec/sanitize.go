// Package codec converts native Go values to Solr XML field text and
// untyped Solr field text back to best-guess native values.
package codec

import (
	"strings"
	"unicode/utf8"
)

// badCtrl reports whether b is an ASCII control byte that Solr's XML
// parser rejects. Tab (0x09), newline (0x0A) and carriage return (0x0D)
// are XML-legal and kept.
func badCtrl(b byte) bool {
	if b >= 0x20 {
		return false
	}
	return b != '\t' && b != '\n' && b != '\r'
}

// Sanitize strips control characters in the ranges 0x00-0x08, 0x0B-0x0C
// and 0x0E-0x1F from s. It scans at the byte level; every stripped byte is
// below 0x80, so multi-byte UTF-8 sequences pass through untouched. Clean
// input is returned unchanged, which also makes Sanitize idempotent.
func Sanitize(s string) string {
	dirty := -1
	for i := 0; i < len(s); i++ {
		if badCtrl(s[i]) {
			dirty = i
			break
		}
	}
	if dirty < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) - 1)
	b.WriteString(s[:dirty])
	for i := dirty + 1; i < len(s); i++ {
		if !badCtrl(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// validXMLRune reports whether r may appear in an XML document:
//
//	Char ::= #x9 | #xA | #xD | [#x20-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF]
func validXMLRune(r rune) bool {
	switch {
	case 0x20 <= r && r <= 0xD7FF:
		return true
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case 0xE000 <= r && r <= 0xFFFD:
		return true
	case 0x10000 <= r && r <= 0x10FFFF:
		return true
	}
	return false
}

// CleanXMLString drops every rune outside the XML-legal set. Illegal runes
// are removed, not escaped.
func CleanXMLString(s string) string {
	clean := true
	for _, r := range s {
		if !validXMLRune(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if validXMLRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// forceValidUTF8 decodes raw bytes as UTF-8, substituting U+FFFD for
// invalid sequences.
func forceValidUTF8(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	return strings.ToValidUTF8(string(p), string(utf8.RuneError))
}
