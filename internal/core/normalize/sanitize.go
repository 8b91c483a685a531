package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize removes runes we don't want in fact rows:
// - NUL and ASCII controls except '\n', '\r', '\t'
// - DEL (0x7F)
// - C1 controls U+0080..U+009F
// It also drops invalid UTF-8 bytes and returns s unchanged when already clean.
func Sanitize(s string) string {
	if s == "" || isClean(s) {
		return s
	}
	return strings.Map(keepRune, strings.ToValidUTF8(s, ""))
}

func keepRune(r rune) rune {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return r
	case r < 0x20 || r == 0x7F:
		return -1
	case r >= 0x80 && r <= 0x9F:
		return -1
	}
	return r
}

func isClean(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if keepRune(r) < 0 {
			return false
		}
	}
	return true
}
