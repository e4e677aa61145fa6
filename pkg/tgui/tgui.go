package tgui

import (
	"chatkit/pkg/markup"

	tele "gopkg.in/telebot.v4"
)

// MaxButtonLabel is the rune limit applied to button labels.
const MaxButtonLabel = 64

// Inline is a small builder for inline keyboards (ReplyMarkup).
// It stores rows as tele.Row ([]tele.Btn) and applies them via ReplyMarkup.Inline().
type Inline struct {
	rm   *tele.ReplyMarkup
	rows []tele.Row
}

func NewInline() *Inline {
	return &Inline{rm: &tele.ReplyMarkup{}}
}

// Row appends a new row (buttons) to the inline keyboard.
func (i *Inline) Row(btn ...tele.Btn) *Inline {
	if len(btn) == 0 {
		return i
	}
	i.rows = append(i.rows, i.rm.Row(btn...))
	i.rm.Inline(i.rows...)
	return i
}

// Len returns the number of rows.
func (i *Inline) Len() int { return len(i.rows) }

// Markup returns underlying reply markup, or nil when no row was added so it
// can be passed straight to Send.
func (i *Inline) Markup() *tele.ReplyMarkup {
	if len(i.rows) == 0 {
		return nil
	}
	return i.rm
}

// URLBtn creates a URL button.
func URLBtn(text, url string) tele.Btn {
	return tele.Btn{Text: TruncRunes(text, MaxButtonLabel), URL: url}
}

// FromLayout converts a note button layout into an inline keyboard, one
// keyboard row per layout row.
func FromLayout(l markup.Layout) *Inline {
	kb := NewInline()
	for _, row := range l {
		btns := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			btns = append(btns, URLBtn(b.Label, b.URL))
		}
		kb.Row(btns...)
	}
	return kb
}
