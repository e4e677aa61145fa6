package tgui

import (
	"strings"
	"testing"

	"chatkit/pkg/markup"
)

func TestFromLayout(t *testing.T) {
	t.Parallel()
	p := markup.Parse("Rules [Read](buttonurl:https://a.example)[Ask](buttonurl:https://b.example:same)\n[Site](buttonurl:https://c.example)")
	kb := FromLayout(p.Buttons)
	if kb.Len() != 2 {
		t.Fatalf("rows = %d, want 2", kb.Len())
	}
	rm := kb.Markup()
	if rm == nil {
		t.Fatal("expected markup")
	}
	if len(rm.InlineKeyboard) != 2 || len(rm.InlineKeyboard[0]) != 2 || len(rm.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected keyboard shape: %+v", rm.InlineKeyboard)
	}
	if got := rm.InlineKeyboard[0][1]; got.Text != "Ask" || got.URL != "https://b.example" {
		t.Fatalf("button = %+v", got)
	}
}

func TestFromEmptyLayout(t *testing.T) {
	t.Parallel()
	if FromLayout(nil).Markup() != nil {
		t.Fatal("empty layout must not produce markup")
	}
}

func TestTruncRunes(t *testing.T) {
	t.Parallel()
	if got := TruncRunes("héllo", 5); got != "héllo" {
		t.Fatalf("TruncRunes = %q", got)
	}
	if got := TruncRunes("héllo world", 5); got != "héll…" {
		t.Fatalf("TruncRunes = %q", got)
	}
	if got := TruncRunes("abc", 0); got != "" {
		t.Fatalf("TruncRunes = %q", got)
	}
	long := strings.Repeat("x", MaxButtonLabel+10)
	if got := URLBtn(long, "https://x").Text; len([]rune(got)) != MaxButtonLabel {
		t.Fatalf("label runes = %d, want %d", len([]rune(got)), MaxButtonLabel)
	}
}

func TestHTMLHelpers(t *testing.T) {
	t.Parallel()
	if got := B("a<b").String(); got != "<b>a&lt;b</b>" {
		t.Fatalf("B = %q", got)
	}
	if got := Mention("Bob & co", 42).String(); got != `<a href="tg://user?id=42">Bob &amp; co</a>` {
		t.Fatalf("Mention = %q", got)
	}
	if got := JoinH(", ", Code("x"), "", I("y")).String(); got != "<code>x</code>, <i>y</i>" {
		t.Fatalf("JoinH = %q", got)
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5}
	sub, prev, next := PaginateSlice(items, 1, 2)
	if len(sub) != 2 || sub[0] != 3 || !prev || !next {
		t.Fatalf("page 1 = %v prev=%v next=%v", sub, prev, next)
	}
	sub, _, next = PaginateSlice(items, 9, 2)
	if len(sub) != 0 || next {
		t.Fatalf("page 9 = %v next=%v", sub, next)
	}
	if got := PageLabel(2, 2, 5); got != "Page 3/3 • 5–5 of 5" {
		t.Fatalf("PageLabel = %q", got)
	}
}
