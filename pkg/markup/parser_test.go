package markup

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		text    string
		buttons Layout
	}{
		{name: "empty", in: "", text: ""},
		{name: "plain text", in: "hello world", text: "hello world"},
		{
			name:    "single button",
			in:      "[A](buttonurl:http://x)",
			text:    "",
			buttons: Layout{{{Label: "A", URL: "http://x"}}},
		},
		{
			name:    "same row",
			in:      "[A](buttonurl:http://x)[B](buttonurl:http://y:same)",
			text:    "",
			buttons: Layout{{{Label: "A", URL: "http://x"}, {Label: "B", URL: "http://y"}}},
		},
		{
			name:    "same without previous row starts one",
			in:      "[A](buttonurl:x:same)",
			buttons: Layout{{{Label: "A", URL: "x"}}},
		},
		{
			name:    "separate rows keep surrounding text",
			in:      "Hi\n[A](buttonurl:a)\n[B](buttonurl:b)",
			text:    "Hi\n\n",
			buttons: Layout{{{Label: "A", URL: "a"}}, {{Label: "B", URL: "b"}}},
		},
		{
			name:    "leading slashes stripped",
			in:      "go [Site](buttonurl://example.com/path)",
			text:    "go ",
			buttons: Layout{{{Label: "Site", URL: "example.com/path"}}},
		},
		{
			name: "escaped directive kept literal",
			in:   `\[A](buttonurl:http://x)`,
			text: `[A](buttonurl:http://x)`,
		},
		{
			name:    "double backslash is not an escape",
			in:      `\\[A](buttonurl:http://x)`,
			text:    `\\`,
			buttons: Layout{{{Label: "A", URL: "http://x"}}},
		},
		{
			name: "triple backslash drops one",
			in:   `x \\\[A](buttonurl:http://x) y`,
			text: `x \\[A](buttonurl:http://x) y`,
		},
		{
			name:    "escaped then real",
			in:      `\[A](buttonurl:a) [B](buttonurl:b)`,
			text:    `[A](buttonurl:a) `,
			buttons: Layout{{{Label: "B", URL: "b"}}},
		},
		{
			name:    "label may contain closing bracket",
			in:      "[a]b](buttonurl:u)",
			buttons: Layout{{{Label: "a]b", URL: "u"}}},
		},
		{
			name:    "label cannot cross an opening bracket",
			in:      "[x [A](buttonurl:u)",
			text:    "[x ",
			buttons: Layout{{{Label: "A", URL: "u"}}},
		},
		{
			name: "url cannot span lines",
			in:   "[A](buttonurl:ht\ntp)",
			text: "[A](buttonurl:ht\ntp)",
		},
		{
			name: "empty label is not a button",
			in:   "[](buttonurl:u)",
			text: "[](buttonurl:u)",
		},
		{
			name:    "command prefix dropped",
			in:      "/save note Hello [A](buttonurl:a)",
			text:    "Hello ",
			buttons: Layout{{{Label: "A", URL: "a"}}},
		},
		{
			name: "bang prefix keeps trailing whitespace",
			in:   "!save   note   body  ",
			text: "body  ",
		},
		{name: "command without body", in: "/save note", text: ""},
		{name: "command alone", in: "/save", text: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.in)
			if got.Text != tt.text {
				t.Fatalf("Text = %q, want %q", got.Text, tt.text)
			}
			if !reflect.DeepEqual(got.Buttons, tt.buttons) {
				t.Fatalf("Buttons = %#v, want %#v", got.Buttons, tt.buttons)
			}
		})
	}
}

func TestParseIdempotentOnOutput(t *testing.T) {
	t.Parallel()
	first := Parse("Rules:\n[Read](buttonurl:https://a.example)[Ask](buttonurl:https://b.example:same)\nbye")
	if first.Buttons.Len() != 2 {
		t.Fatalf("Len = %d, want 2", first.Buttons.Len())
	}
	second := Parse(first.Text)
	if second.Text != first.Text {
		t.Fatalf("Text = %q, want %q", second.Text, first.Text)
	}
	if !second.Buttons.Empty() {
		t.Fatalf("expected no buttons, got %#v", second.Buttons)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()
	layout := Layout{
		{{Label: "One", URL: "https://one.example"}, {Label: "Two", URL: "https://two.example"}},
		{{Label: "Three", URL: "https://three.example"}},
	}
	got := Parse(Render("note", layout))
	if got.Text != "note\n" {
		t.Fatalf("Text = %q, want %q", got.Text, "note\n")
	}
	if !reflect.DeepEqual(got.Buttons, layout) {
		t.Fatalf("Buttons = %#v, want %#v", got.Buttons, layout)
	}
	if Render("plain", nil) != "plain" {
		t.Fatal("Render without buttons must return text unchanged")
	}
}

func TestParseBodyKeepsCommandLikeText(t *testing.T) {
	t.Parallel()

	got := ParseBody("/start here [go](buttonurl:https://x.io)")
	if got.Text != "/start here " {
		t.Fatalf("Text = %q", got.Text)
	}
	if got.Buttons.Len() != 1 || got.Buttons[0][0].URL != "https://x.io" {
		t.Fatalf("Buttons = %+v", got.Buttons)
	}
	if p := Parse("/start here [go](buttonurl:https://x.io)"); p.Text != "" || p.Buttons.Len() != 1 {
		t.Fatalf("Parse() = %+v", p)
	}
}
