// Package normalize provides a deterministic cleaner for descriptive text
// (campaign names, regions, landing paths, CSV headers)
// Pipeline order
// 1 Sanitize control characters and invalid UTF-8
// 2 Unicode NFC composition
// 3 Remove format characters (zero-width, BOM)
// 4 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

// Label returns the cleaned single-line form of s
func Label(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return collapseSpaces(ns)
}

// Or returns Label(s), or sentinel when nothing is left
func Or(s, sentinel string) string {
	if v := Label(s); v != "" {
		return v
	}
	return sentinel
}

// collapseSpaces converts every whitespace run, line breaks included, to a
// single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
