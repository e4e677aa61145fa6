// Package i18n loads localized bot strings from YAML files.
//
// A locale file is named <lang>.yml and maps a context (usually the feature
// that owns the strings) to key/text pairs:
//
//	main:
//	  no_admin_error: "You need to be an administrator to do this."
//	notes:
//	  note_saved: "Saved note <code>{name}</code>."
//
// Lookups fall back from the requested context to "main", then from the
// requested language to the default one, and finally to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"chatkit/pkg/textkit"
)

// MainContext is the shared context every lookup falls back to.
const MainContext = "main"

//go:embed locales/*.yml
var builtinFS embed.FS

// Func resolves a string key. The optional context selects the feature
// section; it defaults to MainContext.
type Func func(key string, context ...string) string

// Locale maps context -> key -> text.
type Locale map[string]map[string]string

type Bundle struct {
	def     string
	locales map[string]Locale
}

// Load reads the embedded locales and then overlays every <lang>.yml found in
// dir (if dir is non-empty). Keys from dir override embedded ones.
func Load(dir, defaultLang string) (*Bundle, error) {
	b := &Bundle{def: normalizeLang(defaultLang), locales: map[string]Locale{}}
	if b.def == "" {
		b.def = "en"
	}

	entries, err := builtinFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, err
		}
		if err := b.merge(e.Name(), data); err != nil {
			return nil, err
		}
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return b, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, err
	}
	more, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, path := range append(files, more...) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := b.merge(filepath.Base(path), data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Bundle) merge(name string, data []byte) error {
	lang := normalizeLang(strings.TrimSuffix(name, filepath.Ext(name)))
	var loc Locale
	if err := yaml.Unmarshal(data, &loc); err != nil {
		return fmt.Errorf("i18n: %s: %w", name, err)
	}
	dst := b.locales[lang]
	if dst == nil {
		dst = Locale{}
		b.locales[lang] = dst
	}
	for ctx, kv := range loc {
		if dst[ctx] == nil {
			dst[ctx] = map[string]string{}
		}
		for k, v := range kv {
			dst[ctx][k] = v
		}
	}
	return nil
}

// Languages returns the loaded language codes, sorted.
func (b *Bundle) Languages() []string {
	out := make([]string, 0, len(b.locales))
	for l := range b.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Default returns the default language code.
func (b *Bundle) Default() string { return b.def }

// For returns a lookup function bound to lang. Region variants ("pt-br")
// fall back to their base language ("pt").
func (b *Bundle) For(lang string) Func {
	chain := b.chain(lang)
	return func(key string, context ...string) string {
		ctx := MainContext
		if len(context) > 0 && strings.TrimSpace(context[0]) != "" {
			ctx = context[0]
		}
		for _, loc := range chain {
			if s, ok := loc[ctx][key]; ok {
				return s
			}
			if ctx != MainContext {
				if s, ok := loc[MainContext][key]; ok {
					return s
				}
			}
		}
		return key
	}
}

func (b *Bundle) chain(lang string) []Locale {
	lang = normalizeLang(lang)
	var out []Locale
	add := func(l string) {
		if loc, ok := b.locales[l]; ok {
			out = append(out, loc)
		}
	}
	if lang != "" {
		add(lang)
		if i := strings.IndexByte(lang, '-'); i > 0 {
			add(lang[:i])
		}
	}
	if lang != b.def {
		add(b.def)
	}
	return out
}

func normalizeLang(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}

// Format replaces {name} placeholders with values from args. Unknown
// placeholders are left untouched.
func Format(tmpl string, args map[string]string) string {
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Lint reports translations whose placeholders differ from the default
// language, and templates that do not parse. Results are sorted.
func (b *Bundle) Lint() []string {
	def := b.locales[b.def]
	var out []string
	for lang, loc := range b.locales {
		for ctx, kv := range loc {
			for key, text := range kv {
				got, err := textkit.FormatKeys(text)
				if err != nil {
					out = append(out, fmt.Sprintf("%s: %s.%s: %v", lang, ctx, key, err))
					continue
				}
				if lang == b.def {
					continue
				}
				ref, ok := def[ctx][key]
				if !ok {
					continue
				}
				want, err := textkit.FormatKeys(ref)
				if err != nil {
					continue
				}
				if !sameKeys(got, want) {
					out = append(out, fmt.Sprintf("%s: %s.%s: placeholders %v, want %v", lang, ctx, key, got, want))
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

func sameKeys(a, b []string) bool {
	set := func(xs []string) map[string]struct{} {
		m := make(map[string]struct{}, len(xs))
		for _, x := range xs {
			m[x] = struct{}{}
		}
		return m
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for k := range sa {
		if _, ok := sb[k]; !ok {
			return false
		}
	}
	return true
}
