// Package strings provides small string helpers for ids and query args
package strings

import std "strings"

// SQLNull returns nil if s is blank/whitespace, else the original string.
// Useful for query args where NULL is desired for blanks
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Digits keeps only the ASCII digits of s, so 123-456-7890 becomes 1234567890
func Digits(s string) string {
	return std.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FirstNonEmpty returns the first argument with non whitespace content
func FirstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if std.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
