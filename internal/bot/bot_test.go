package bot

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"chatkit/internal/commands"
	"chatkit/internal/i18n"
	kit "chatkit/internal/transport"
	logx "chatkit/pkg/logx"
	"chatkit/pkg/markup"
)

type recordingMenu struct{ got []kit.BotCommand }

func (m *recordingMenu) UpdateMenuCommands(_ context.Context, cmds []kit.BotCommand) error {
	m.got = cmds
	return nil
}

func TestRegisterCommandsAndMenu(t *testing.T) {
	t.Parallel()

	bundle, err := i18n.Load("", "en")
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	menu := &recordingMenu{}
	reg := commands.NewRegistry()
	b := New(Deps{Bundle: bundle, Registry: reg, Menu: menu, Log: logx.Nop()}, Options{})
	b.registerCommands()

	if got, want := reg.Categories(), []string{"admin", "misc", "notes"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	msg, err := reg.Message(bundle.For("en"), "notes")
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if !strings.Contains(msg, "<b>/save</b> - <i>Save a note, buttons allowed</i>") {
		t.Fatalf("notes help = %q", msg)
	}

	if err := b.SyncMenu(context.Background()); err != nil {
		t.Fatalf("SyncMenu: %v", err)
	}
	if len(menu.got) != 9 || menu.got[0].Command != "clear" {
		t.Fatalf("menu = %+v", menu.got)
	}
	for _, c := range menu.got {
		if strings.HasSuffix(c.Description, "_description") {
			t.Fatalf("untranslated description for %s", c.Command)
		}
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	h := Recover(logx.Nop())(func(tele.Context) error { panic("boom") })
	err := h(nil)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
}

func TestCommandOf(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/save@chatkit_bot rules x": "/save",
		"/help":                     "/help",
		"hello":                     "",
		"":                          "",
	}
	for in, want := range cases {
		if got := commandOf(in); got != want {
			t.Fatalf("commandOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSave(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		args     string
		wantName string
		wantText string
		buttons  int
	}{
		{"plain", "/save rules be nice", "rules be nice", "rules", "be nice", 0},
		{
			"with buttons", "/save site visit [Home](buttonurl:https://a.io)[Docs](buttonurl:https://b.io:same)",
			"site visit [Home](buttonurl:https://a.io)[Docs](buttonurl:https://b.io:same)", "site", "visit", 2,
		},
		{"quoted name", `/save "house rules" /no spam`, `"house rules" /no spam`, "house rules", "/no spam", 0},
		{"missing body", "/save rules", "rules", "", "", 0},
		{"missing all", "/save", "", "", "", 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			name, parsed, _ := parseSave(tc.text, tc.args)
			if name != tc.wantName || parsed.Text != tc.wantText || parsed.Buttons.Len() != tc.buttons {
				t.Fatalf("parseSave() = %q, %+v", name, parsed)
			}
		})
	}
}

func TestRenderNotesPage(t *testing.T) {
	t.Parallel()

	list := []Note{
		{Name: "a", Raw: strings.Repeat("x", 2048)},
		{Name: "b<c", Raw: "hi"},
		{Name: "d", Raw: ""},
	}
	got := renderNotesPage("Notes", list, 0, 2)
	if !strings.Contains(got, "<code>a</code> (2.0 KiB)") {
		t.Fatalf("missing size line: %q", got)
	}
	if !strings.Contains(got, "<code>b&lt;c</code> (2 B)") {
		t.Fatalf("name not escaped: %q", got)
	}
	if strings.Contains(got, "<code>d</code>") {
		t.Fatalf("page 1 should not list d: %q", got)
	}
	if !strings.Contains(got, "Page 1/2") {
		t.Fatalf("missing page label: %q", got)
	}

	last := renderNotesPage("Notes", list, 9, 2)
	if !strings.Contains(last, "<code>d</code>") || !strings.Contains(last, "Page 2/2") {
		t.Fatalf("page clamp failed: %q", last)
	}
}

func TestNoteSourceRoundTrip(t *testing.T) {
	t.Parallel()

	note := Note{
		Name: "rules",
		Text: "Read these first",
		Buttons: markup.Layout{
			{{Label: "Rules", URL: "https://rules.example"}, {Label: "FAQ", URL: "https://faq.example"}},
			{{Label: "Chat", URL: "https://chat.example"}},
		},
	}
	src := noteSource(note)
	want := "Read these first\n[Rules](buttonurl:https://rules.example)[FAQ](buttonurl:https://faq.example:same)[Chat](buttonurl:https://chat.example)"
	if src != want {
		t.Fatalf("noteSource() = %q, want %q", src, want)
	}

	name, parsed, _ := parseSave("/save rules "+src, "rules "+src)
	if name != "rules" || parsed.Text != note.Text || !reflect.DeepEqual(parsed.Buttons, note.Buttons) {
		t.Fatalf("saved source = %q %+v", name, parsed)
	}
	if got := noteSource(Note{Text: "plain"}); got != "plain" {
		t.Fatalf("noteSource(plain) = %q", got)
	}
}

func TestEmojiReport(t *testing.T) {
	t.Parallel()

	bundle, err := i18n.Load("", "en")
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	strs := bundle.For("en")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"none", "plain text", "Found 0 emoji."},
		{"only emoji", "😀😀", "Found 2 emoji."},
		{"mixed", "😀 hi <b>", "Found 1 emoji.\nWithout them: hi &lt;b&gt;"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := emojiReport(strs, tc.in); got != tc.want {
				t.Fatalf("emojiReport(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStopLifecycle(t *testing.T) {
	t.Parallel()

	b := New(Deps{Log: logx.Nop()}, Options{})
	if err := b.Stop(context.Background()); err != nil {
		t.Fatalf("Stop before Register: %v", err)
	}

	tb, err := tele.NewBot(tele.Settings{Token: "123:test", Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Register(ctx, tb)
	if b.jobs == nil {
		t.Fatal("Register did not start the job supervisor")
	}

	release := make(chan struct{})
	b.jobs.Go("shell", func(ctx context.Context) error {
		<-ctx.Done()
		close(release)
		return ctx.Err()
	})
	stopCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := b.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-release:
	default:
		t.Fatal("running job was not canceled")
	}
}
