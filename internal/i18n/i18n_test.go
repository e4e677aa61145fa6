package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupFallbacks(t *testing.T) {
	t.Parallel()
	b, err := Load("", "en")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	pt := b.For("pt-BR")
	if got := pt("notes"); got != "Notas" {
		t.Fatalf("pt notes = %q, want Notas", got)
	}
	// Missing in pt -> default language.
	if got := pt("start_description"); got != "Say hello" {
		t.Fatalf("pt start_description = %q, want english fallback", got)
	}
	// Context falls back to main.
	en := b.For("en")
	if got := en("no_admin_error", "notes"); got != "You need to be an administrator to do this." {
		t.Fatalf("context fallback = %q", got)
	}
	if got := en("note_saved", "notes"); got != "Saved note <code>{name}</code>." {
		t.Fatalf("note_saved = %q", got)
	}
	// Unknown key -> key.
	if got := en("does_not_exist"); got != "does_not_exist" {
		t.Fatalf("unknown key = %q", got)
	}
	// Unknown language -> default.
	if got := b.For("xx")("notes"); got != "Notes" {
		t.Fatalf("unknown lang = %q", got)
	}
}

func TestLoadOverlayDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	data := []byte("main:\n  notes: \"Pinned notes\"\nmisc:\n  extra: \"x\"\n")
	if err := os.WriteFile(filepath.Join(dir, "en.yml"), data, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("main:\n  notes: \"Notizen\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	b, err := Load(dir, "EN")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := b.For("en")("notes"); got != "Pinned notes" {
		t.Fatalf("override = %q", got)
	}
	if got := b.For("en")("admin"); got != "Administration" {
		t.Fatalf("embedded key lost after overlay: %q", got)
	}
	if got := b.For("de")("notes"); got != "Notizen" {
		t.Fatalf("de notes = %q", got)
	}
	langs := b.Languages()
	if len(langs) != 3 || langs[0] != "de" || langs[1] != "en" || langs[2] != "pt" {
		t.Fatalf("Languages = %v", langs)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.yml"), []byte("main: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir, "en"); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	got := Format("Muted {user} until {until}. {other}", map[string]string{"user": "bob", "until": "noon"})
	if got != "Muted bob until noon. {other}" {
		t.Fatalf("Format = %q", got)
	}
}

func TestLint(t *testing.T) {
	t.Parallel()

	b, err := Load("", "en")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if issues := b.Lint(); len(issues) != 0 {
		t.Fatalf("embedded locales: %v", issues)
	}

	dir := t.TempDir()
	data := []byte("notes:\n  note_saved: \"Gespeichert: {title}\"\nmain:\n  all: \"Alle }\"\n")
	if err := os.WriteFile(filepath.Join(dir, "de.yml"), data, 0o600); err != nil {
		t.Fatal(err)
	}
	b, err = Load(dir, "en")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	issues := b.Lint()
	if len(issues) != 2 {
		t.Fatalf("Lint() = %v, want 2 issues", issues)
	}
	if issues[0] != "de: main.all: textkit: single '}' encountered in format string" {
		t.Fatalf("issues[0] = %q", issues[0])
	}
	if issues[1] != "de: notes.note_saved: placeholders [title], want [name]" {
		t.Fatalf("issues[1] = %q", issues[1])
	}
}
