package markup

import (
	"strings"

	"chatkit/pkg/textkit"
)

const (
	directiveSep = "](buttonurl:"
	sameSuffix   = ":same)"
)

type directive struct {
	label string
	url   string
	same  bool
	end   int // byte index just past the closing ')'
}

// Parse strips the inline button dialect from a note body and returns the
// remaining text together with the declared buttons.
//
// Dialect:
//
//	[label](buttonurl:https://example.com)       new row
//	[label](buttonurl:https://example.com:same)  appended to the previous row
//
// A directive preceded by an odd number of backslashes is kept as literal
// text, minus the backslash right before '['. A body starting with '/' or '!'
// is treated as a command line: the command and its first argument are
// dropped before parsing.
//
// Parse never fails: text without directives is returned unchanged.
func Parse(note string) Parsed {
	if note != "" && (note[0] == '/' || note[0] == '!') {
		note = textkit.DropFields(note, 2)
	}
	return ParseBody(note)
}

// ParseBody is Parse without the command-line handling, for bodies that were
// already separated from their command.
func ParseBody(note string) Parsed {
	if note == "" {
		return Parsed{}
	}

	var (
		out     strings.Builder
		buttons Layout
		cursor  int
	)
	out.Grow(len(note))

	for i := 0; i < len(note); {
		if note[i] != '[' {
			i++
			continue
		}
		d, ok := matchDirective(note, i)
		if !ok {
			i++
			continue
		}

		if backslashRun(note, i)%2 == 0 {
			b := Button{Label: d.label, URL: d.url}
			if d.same && len(buttons) > 0 {
				last := len(buttons) - 1
				buttons[last] = append(buttons[last], b)
			} else {
				buttons = append(buttons, Row{b})
			}
			out.WriteString(note[cursor:i])
			cursor = d.end
		} else {
			// Escaped: drop the backslash touching '[' and let the directive
			// flow through as plain text.
			out.WriteString(note[cursor : i-1])
			cursor = i
		}
		i = d.end
	}
	out.WriteString(note[cursor:])

	return Parsed{Text: out.String(), Buttons: buttons}
}

// matchDirective tries to read a full directive whose '[' is at open.
// The label is the shortest run (without '[') that is followed by a valid
// "](buttonurl:...)" tail.
func matchDirective(s string, open int) (directive, bool) {
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case '[':
			return directive{}, false
		case ']':
			if j == open+1 || !strings.HasPrefix(s[j:], directiveSep) {
				continue
			}
			if d, ok := matchTarget(s, j+len(directiveSep)); ok {
				d.label = s[open+1 : j]
				return d, true
			}
		}
	}
	return directive{}, false
}

// matchTarget reads "URL)" or "URL:same)" starting at p. Up to two leading
// slashes are skipped; if no URL can be read after skipping them, fewer are
// tried.
func matchTarget(s string, p int) (directive, bool) {
	slashes := 0
	for slashes < 2 && p+slashes < len(s) && s[p+slashes] == '/' {
		slashes++
	}
	for k := slashes; k >= 0; k-- {
		start := p + k
		for e := start + 1; e < len(s); e++ {
			if s[e-1] == '\n' {
				break
			}
			if strings.HasPrefix(s[e:], sameSuffix) {
				return directive{url: s[start:e], same: true, end: e + len(sameSuffix)}, true
			}
			if s[e] == ')' {
				return directive{url: s[start:e], end: e + 1}, true
			}
		}
	}
	return directive{}, false
}

func backslashRun(s string, i int) int {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n
}

// Render is the inverse of Parse for well-formed layouts: it appends the
// layout to text as directives. Labels containing '[' cannot round-trip.
func Render(text string, layout Layout) string {
	if layout.Empty() {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteByte('\n')
	for _, row := range layout {
		for i, btn := range row {
			b.WriteByte('[')
			b.WriteString(btn.Label)
			b.WriteString(directiveSep)
			b.WriteString(btn.URL)
			if i > 0 {
				b.WriteString(sameSuffix)
			} else {
				b.WriteByte(')')
			}
		}
	}
	return b.String()
}
