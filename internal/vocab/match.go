// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// containsWord reports whether kw occurs in s delimited by word
// boundaries. A boundary is only required on a side where kw itself starts
// or ends with a word character, so "catalog no." matches inside
// "catalog no. 2024" while "price" does not match inside "priceless".
func containsWord(s, kw string) bool {
	if kw == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(kw)
	last, _ := utf8.DecodeLastRuneInString(kw)

	for start := 0; start <= len(s)-len(kw); {
		i := strings.Index(s[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		if boundaryBefore(s, i, first) && boundaryAfter(s, i+len(kw), last) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(s string, i int, first rune) bool {
	if i == 0 || !isWordRune(first) {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(prev)
}

func boundaryAfter(s string, end int, last rune) bool {
	if end >= len(s) || !isWordRune(last) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[end:])
	return !isWordRune(next)
}

// isWordRune treats letters, digits, combining marks and underscore as
// word characters. Marks are included so Indic scripts are not split
// between a consonant and its vowel sign.
func isWordRune(r rune) bool {
	return r == '_' ||
		unicode.IsLetter(r) ||
		unicode.IsDigit(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc)
}
