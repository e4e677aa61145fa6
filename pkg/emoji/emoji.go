// Package emoji builds regular expressions that match emoji sequences.
package emoji

import (
	_ "embed"
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed emoji.txt
var builtin string

var ErrEmptyList = errors.New("emoji: empty list")

var (
	defaultOnce sync.Once
	defaultRe   *regexp.Regexp
)

// Build compiles a single-group alternation over list. Entries are sorted in
// descending order so a multi-codepoint sequence (skin tone, ZWJ, keycap) is
// tried before any emoji it starts with.
func Build(list []string) (*regexp.Regexp, error) {
	seen := make(map[string]struct{}, len(list))
	uniq := make([]string, 0, len(list))
	for _, e := range list {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		uniq = append(uniq, e)
	}
	if len(uniq) == 0 {
		return nil, ErrEmptyList
	}
	sort.Sort(sort.Reverse(sort.StringSlice(uniq)))

	parts := make([]string, len(uniq))
	for i, e := range uniq {
		parts[i] = regexp.QuoteMeta(e)
	}
	return regexp.Compile("(" + strings.Join(parts, "|") + ")")
}

// Pattern returns the pattern built from the embedded emoji list.
// It is compiled once on first use.
func Pattern() *regexp.Regexp {
	defaultOnce.Do(func() {
		re, err := Build(strings.Split(builtin, "\n"))
		if err != nil {
			// The embedded list is never empty.
			panic(err)
		}
		defaultRe = re
	})
	return defaultRe
}

// Count returns the number of emoji sequences in s.
func Count(s string) int {
	return len(Pattern().FindAllStringIndex(s, -1))
}

// Strip removes every emoji sequence from s.
func Strip(s string) string {
	return Pattern().ReplaceAllString(s, "")
}
