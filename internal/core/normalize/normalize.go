// Package normalize provides text folding used to compare inputs with translator output
// Fold pipeline
// 1 drop invalid UTF-8 and control characters
// 2 Unicode NFC composition
// 3 case folding
// 4 remove format chars (ZWJ ZWNJ FEFF)
// 5 collapse whitespace runs to one space and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// Fold returns the comparison form of s
func Fold(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	fs, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		fs = strings.ToLower(s)
	}

	return collapseSpaces(fs)
}

// Equivalent reports whether a and b are the same text modulo case and whitespace
func Equivalent(a, b string) bool { return Fold(a) == Fold(b) }

// Clean drops invalid UTF-8 and control characters other than newline, carriage return and tab
func Clean(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
