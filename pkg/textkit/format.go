package textkit

import (
	"errors"
	"strings"
)

var (
	ErrUnclosedField = errors.New("textkit: expected '}' before end of string")
	ErrSingleBrace   = errors.New("textkit: single '}' encountered in format string")
)

// FormatKeys returns the named placeholders referenced by a brace template
// ("{name}", "{name!r}", "{name:>10}") in order of appearance. "{{" and "}}"
// are literal braces; positional "{}" fields are skipped.
func FormatKeys(tmpl string) ([]string, error) {
	var keys []string
	for i := 0; i < len(tmpl); i++ {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				i++
				continue
			}
			// Format specs may nest fields: "{a:{width}}".
			depth := 1
			j := i + 1
			for ; j < len(tmpl) && depth > 0; j++ {
				switch tmpl[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
			}
			if depth != 0 {
				return nil, ErrUnclosedField
			}
			name := tmpl[i+1 : j-1]
			if k := strings.IndexAny(name, "!:"); k >= 0 {
				name = name[:k]
			}
			if name != "" {
				keys = append(keys, name)
			}
			i = j - 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				i++
				continue
			}
			return nil, ErrSingleBrace
		}
	}
	return keys, nil
}
