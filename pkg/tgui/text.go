package tgui

import "unicode/utf8"

// TruncRunes returns s cut to at most n runes. When anything is dropped the
// last rune of the result is "…".
func TruncRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n-1 {
			return s[:i] + "…"
		}
		count++
	}
	return s
}
