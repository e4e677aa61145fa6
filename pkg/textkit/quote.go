package textkit

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	smartOpen  = '“'
	smartClose = '”'
)

// Token is a command argument split into its first key and the remainder.
type Token struct {
	Key  string
	Rest string
}

// Split is SplitQuotes returning a Token instead of a slice. An empty quoted
// key ("" rest) yields Token{Rest: rest}.
func Split(text string) Token {
	key, rest := splitQuotes(text)
	return Token{Key: key, Rest: rest}
}

// SplitQuotes splits text into at most two non-empty parts: a key and the
// rest.
//
// When text starts with ', " or “ the key is everything up to the matching
// close quote (” closes “); backslash escapes are honoured while looking for
// the close quote but are left in the key (see RemoveEscapes). Otherwise, or
// when the quote is never closed, the key is the first whitespace-delimited
// word. The rest is trimmed.
//
//	SplitQuotes(`"hello world" rest`)  => ["hello world", "rest"]
//	SplitQuotes(`"unterminated rest`)  => [`"unterminated`, "rest"]
func SplitQuotes(text string) []string {
	key, rest := splitQuotes(text)
	out := make([]string, 0, 2)
	if key != "" {
		out = append(out, key)
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}

func splitQuotes(text string) (key, rest string) {
	open, size := utf8.DecodeRuneInString(text)
	if text == "" || !isQuoteStart(open) {
		return splitFirstField(text)
	}

	escaped := false
	for i, r := range text[size:] {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == open || (open == smartOpen && r == smartClose) {
			end := size + i
			return text[size:end], strings.TrimSpace(text[end+utf8.RuneLen(r):])
		}
	}
	// Never closed: treat the quote as an ordinary character.
	return splitFirstField(text)
}

func isQuoteStart(r rune) bool {
	return r == '\'' || r == '"' || r == smartOpen
}

func splitFirstField(text string) (string, string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

// RemoveEscapes drops every unescaped backslash and keeps the character it
// escapes. A trailing lone backslash is dropped.
func RemoveEscapes(text string) string {
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	escaped := false
	for _, r := range text {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DropFields removes the first n whitespace-delimited fields of s together
// with the whitespace that follows them. Trailing whitespace of the result is
// kept. It returns "" when s has n fields or fewer.
func DropFields(s string, n int) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	for ; n > 0 && s != ""; n-- {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return ""
		}
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	return s
}

// SplitReason returns the free-form reason of a moderation command.
// With a replied-to message the target is implicit, so the reason starts after
// the command; otherwise it starts after the command and the target.
func SplitReason(text string, hasReply bool) (string, bool) {
	skip := 2
	if hasReply {
		skip = 1
	}
	if len(strings.Fields(text)) <= skip {
		return "", false
	}
	return DropFields(text, skip), true
}
