// Package encoding provides the escaping rules of the text formats.
package encoding

import (
	"strings"
)

// EscapeXMLText escapes only the basic XML entities for text content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in XML attributes.
// Includes quote escaping in addition to basic XML entities.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// nexusPunctuation lists the characters that end an unquoted Nexus word.
const nexusPunctuation = "()[]{}/\\,;:=*'\"`<>"

// NeedsNexusQuotes reports whether s must be quoted to survive as a single
// Nexus token.
func NeedsNexusQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if c <= ' ' || strings.ContainsRune(nexusPunctuation, c) {
			return true
		}
	}
	return false
}

// QuoteNexus returns s as a Nexus token, wrapping it in single quotes and
// doubling embedded quotes when needed.
func QuoteNexus(s string) string {
	if !NeedsNexusQuotes(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
