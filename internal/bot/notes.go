package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"chatkit/internal/i18n"
	"chatkit/internal/perms"
	kit "chatkit/internal/transport"
	"chatkit/pkg/markup"
	"chatkit/pkg/textkit"
	"chatkit/pkg/tgui"
)

// parseSave splits a /save command into the note name and its parsed body.
// A quoted name is taken as is; otherwise the whole command line is parsed so
// the command and the name are dropped together.
func parseSave(text, args string) (name string, parsed markup.Parsed, raw string) {
	tok := textkit.Split(args)
	if tok.Key == "" || tok.Rest == "" {
		return "", markup.Parsed{}, ""
	}
	name = textkit.RemoveEscapes(tok.Key)
	if strings.HasPrefix(strings.TrimSpace(args), tok.Key) {
		parsed = markup.Parse(text)
	} else {
		parsed = markup.ParseBody(tok.Rest)
	}
	parsed.Text = strings.TrimSpace(parsed.Text)
	return name, parsed, tok.Rest
}

func (b *Bot) onSave(c tele.Context) error {
	if ok, err := b.requireAdmin(c, perms.CanChangeInfo); !ok || err != nil {
		return err
	}
	strs := b.strings(c)
	msg := c.Message()

	name, parsed, raw := parseSave(msg.Text, msg.Payload)
	if name == "" || (parsed.Text == "" && parsed.Buttons.Empty()) {
		return c.Reply(strs("save_usage", categoryNotes))
	}

	var author int64
	if u := c.Sender(); u != nil {
		author = u.ID
	}
	err := b.notes.Save(c.Chat().ID, Note{
		Name:      name,
		Raw:       raw,
		Text:      parsed.Text,
		Buttons:   parsed.Buttons,
		AuthorID:  author,
		UpdatedAt: time.Now(),
	})
	if errors.Is(err, ErrNoteLimit) {
		return c.Reply(i18n.Format(strs("note_too_many", categoryNotes), map[string]string{
			"max": strconv.Itoa(b.options().MaxNotes),
		}))
	}
	if err != nil {
		return err
	}
	return c.Reply(i18n.Format(strs("note_saved", categoryNotes), map[string]string{
		"name": tgui.Esc(name).String(),
	}), tele.ModeHTML)
}

// onGet sends a note. "/get name noformat" shows the note source, buttons
// written back as directives, so it can be copied and edited.
func (b *Bot) onGet(c tele.Context) error {
	tok := textkit.Split(payload(c))
	name := textkit.RemoveEscapes(tok.Key)
	if name == "" {
		return c.Reply(b.strings(c)("get_usage", categoryNotes))
	}
	if strings.EqualFold(strings.TrimSpace(tok.Rest), "noformat") {
		return b.sendNoteSource(c, name)
	}
	return b.sendNote(c, name, true)
}

func (b *Bot) sendNoteSource(c tele.Context, name string) error {
	note, ok := b.notes.Get(c.Chat().ID, name)
	if !ok {
		return b.replyNotFound(c, name)
	}
	return c.Reply(noteSource(note), &tele.SendOptions{DisableWebPagePreview: true})
}

// noteSource renders a note back into the text it can be saved from.
func noteSource(n Note) string {
	return markup.Render(n.Text, n.Buttons)
}

func (b *Bot) replyNotFound(c tele.Context, name string) error {
	return c.Reply(i18n.Format(b.strings(c)("note_not_found", categoryNotes), map[string]string{
		"name": tgui.Esc(name).String(),
	}), tele.ModeHTML)
}

// onText answers "#name" with the saved note; other text is ignored.
func (b *Bot) onText(c tele.Context) error {
	text := c.Text()
	if !strings.HasPrefix(text, "#") {
		return nil
	}
	name := strings.TrimPrefix(strings.Fields(text)[0], "#")
	if name == "" {
		return nil
	}
	return b.sendNote(c, name, false)
}

func (b *Bot) sendNote(c tele.Context, name string, complain bool) error {
	chat := c.Chat()
	note, ok := b.notes.Get(chat.ID, name)
	if !ok {
		if !complain {
			return nil
		}
		return b.replyNotFound(c, name)
	}

	text := note.Text
	if text == "" {
		text = note.Name
	}
	kb := tgui.FromLayout(note.Buttons).Markup()
	if b.deps.Sender == nil {
		return c.Send(text, &tele.SendOptions{ReplyMarkup: kb, DisableWebPagePreview: true})
	}
	opt := &kit.SendOptions{DisablePreview: true}
	if msg := c.Message(); msg != nil {
		opt.ReplyToID = msg.ID
	}
	if kb != nil {
		opt.ReplyMarkupAdapter = kb
	}

	to := kit.ChatTarget{ChatID: chat.ID}
	if msg := c.Message(); msg != nil {
		to.ThreadID = msg.ThreadID
	}
	ctx, cancel := context.WithTimeout(b.ctx, 30*time.Second)
	defer cancel()
	_, err := b.deps.Sender.SendText(ctx, to, text, opt)
	return err
}

func (b *Bot) onNotes(c tele.Context) error {
	strs := b.strings(c)
	list := b.notes.List(c.Chat().ID)
	if len(list) == 0 {
		return c.Reply(strs("no_notes", categoryNotes))
	}
	page := 0
	if n, err := strconv.Atoi(strings.TrimSpace(payload(c))); err == nil && n > 0 {
		page = n - 1
	}
	return c.Send(renderNotesPage(strs("notes_list", categoryNotes), list, page, b.options().PageSize), tele.ModeHTML)
}

// renderNotesPage lists one page of notes with their body sizes. page is
// 0-based and clamped.
func renderNotesPage(title string, list []Note, page, size int) string {
	if size <= 0 {
		size = 10
	}
	if pages := (len(list) + size - 1) / size; page >= pages {
		page = max(pages-1, 0)
	}
	sub, _, _ := tgui.PaginateSlice(list, page, size)

	var sb strings.Builder
	sb.WriteString(tgui.B(title).String())
	sb.WriteByte('\n')
	for _, n := range sub {
		sb.WriteString("• ")
		sb.WriteString(tgui.Code(n.Name).String())
		sb.WriteString(" (")
		sb.WriteString(textkit.PrettySize(int64(len(n.Raw))))
		if k := n.Buttons.Len(); k > 0 {
			sb.WriteString(", ")
			sb.WriteString(strconv.Itoa(k))
			sb.WriteString(" 🔘")
		}
		sb.WriteString(")\n")
	}
	if len(list) > size {
		sb.WriteByte('\n')
		sb.WriteString(tgui.I(tgui.PageLabel(page, size, len(list))).String())
	}
	return sb.String()
}

func (b *Bot) onClear(c tele.Context) error {
	if ok, err := b.requireAdmin(c, perms.CanChangeInfo); !ok || err != nil {
		return err
	}
	strs := b.strings(c)
	name := textkit.RemoveEscapes(textkit.Split(payload(c)).Key)
	if name == "" {
		return c.Reply(strs("clear_usage", categoryNotes))
	}
	key := "note_cleared"
	if !b.notes.Delete(c.Chat().ID, name) {
		key = "note_not_found"
	}
	return c.Reply(i18n.Format(strs(key, categoryNotes), map[string]string{
		"name": tgui.Esc(name).String(),
	}), tele.ModeHTML)
}
