package textkit

import (
	"reflect"
	"testing"
)

func TestSplitQuotes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "single word", in: "rules", want: []string{"rules"}},
		{name: "plain split", in: "rules  be nice ", want: []string{"rules", "be nice"}},
		{name: "double quoted", in: `"hello world" rest`, want: []string{"hello world", "rest"}},
		{name: "single quoted", in: `'a b'   c d`, want: []string{"a b", "c d"}},
		{name: "smart quotes", in: "“good morning” text", want: []string{"good morning", "text"}},
		{name: "smart open closes itself", in: "“a b“ c", want: []string{"a b", "c"}},
		{name: "escaped quote kept", in: `"say \"hi\"" now`, want: []string{`say \"hi\"`, "now"}},
		{name: "unterminated", in: `"unterminated rest`, want: []string{`"unterminated`, "rest"}},
		{name: "trailing escape never closes", in: `"abc\"`, want: []string{`"abc\"`}},
		{name: "quoted key only", in: `"only key"`, want: []string{"only key"}},
		{name: "empty quoted key filtered", in: `"" rest`, want: []string{"rest"}},
		{name: "mismatched quote kinds", in: `"a' b`, want: []string{`"a'`, "b"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitQuotes(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitQuotes(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitToken(t *testing.T) {
	t.Parallel()
	got := Split(`"" rest`)
	if got.Key != "" || got.Rest != "rest" {
		t.Fatalf("Split = %+v, want {Key: Rest:rest}", got)
	}
	got = Split("name body text")
	if got.Key != "name" || got.Rest != "body text" {
		t.Fatalf("Split = %+v", got)
	}
}

func TestRemoveEscapes(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		``:            ``,
		`plain`:       `plain`,
		`say \"hi\"`:  `say "hi"`,
		`a\\b`:        `a\b`,
		`trailing\`:   `trailing`,
		`\[x](y)`:     `[x](y)`,
		`“\”quoted”`:  `“”quoted”`,
	}
	for in, want := range tests {
		if got := RemoveEscapes(in); got != want {
			t.Fatalf("RemoveEscapes(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDropFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "/cmd arg body text ", n: 2, want: "body text "},
		{in: "  /cmd\targ\n\nbody", n: 2, want: "body"},
		{in: "/cmd arg", n: 2, want: ""},
		{in: "/cmd arg   ", n: 2, want: ""},
		{in: "text", n: 0, want: "text"},
	}
	for _, tt := range tests {
		if got := DropFields(tt.in, tt.n); got != tt.want {
			t.Fatalf("DropFields(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestSplitReason(t *testing.T) {
	t.Parallel()
	if got, ok := SplitReason("/ban @spammer posting links", false); !ok || got != "posting links" {
		t.Fatalf("SplitReason = %q, %v", got, ok)
	}
	if _, ok := SplitReason("/ban @spammer", false); ok {
		t.Fatal("expected no reason without reply")
	}
	if got, ok := SplitReason("/ban flooding", true); !ok || got != "flooding" {
		t.Fatalf("SplitReason(reply) = %q, %v", got, ok)
	}
	if _, ok := SplitReason("/ban", true); ok {
		t.Fatal("expected no reason for bare command")
	}
}
