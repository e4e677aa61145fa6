package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"chatkit/internal/commands"
	"chatkit/internal/i18n"
	"chatkit/pkg/emoji"
	logx "chatkit/pkg/logx"
	"chatkit/pkg/tgui"
)

func (b *Bot) onStart(c tele.Context) error {
	strs := b.strings(c)
	name := "there"
	if u := c.Sender(); u != nil && u.FirstName != "" {
		name = u.FirstName
	}
	return c.Send(i18n.Format(strs("start_text"), map[string]string{
		"name": tgui.Esc(name).String(),
	}), tele.ModeHTML)
}

func (b *Bot) onHelp(c tele.Context) error {
	strs := b.strings(c)
	category := strings.ToLower(strings.TrimSpace(payload(c)))

	text, err := b.deps.Registry.Message(strs, category)
	if errors.Is(err, commands.ErrUnknownCategory) {
		return c.Reply(i18n.Format(strs("unknown_category"), map[string]string{
			"categories": strings.Join(b.deps.Registry.Categories(), ", "),
		}))
	}
	if err != nil {
		return err
	}
	if category == "" {
		text += "\n" + i18n.Format(strs("help_categories"), map[string]string{
			"categories": tgui.Code(strings.Join(b.deps.Registry.Categories(), ", ")).String(),
		})
	}
	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) onEmojis(c tele.Context) error {
	text := payload(c)
	if msg := c.Message(); text == "" && msg != nil && msg.ReplyTo != nil {
		text = msg.ReplyTo.Text
	}
	return c.Reply(emojiReport(b.strings(c), text), tele.ModeHTML)
}

// emojiReport counts the emojis in text and, when there are any, shows the
// text without them.
func emojiReport(strs i18n.Func, text string) string {
	n := emoji.Count(text)
	out := i18n.Format(strs("emojis_result", categoryMisc), map[string]string{
		"count": strconv.Itoa(n),
	})
	if n == 0 {
		return out
	}
	if rest := strings.TrimSpace(emoji.Strip(text)); rest != "" {
		out += "\n" + i18n.Format(strs("emojis_stripped", categoryMisc), map[string]string{
			"text": tgui.Esc(tgui.TruncRunes(rest, 3500)).String(),
		})
	}
	return out
}

// onShell starts the command in the background and replies once it exits,
// so a slow command never holds the update handler.
func (b *Bot) onShell(c tele.Context) error {
	strs := b.strings(c)
	code := strings.TrimSpace(payload(c))
	if code == "" {
		return c.Reply(strs("sh_usage", categoryMisc))
	}

	if b.jobs == nil {
		return errors.New("bot: handlers are not registered")
	}
	timeout := b.options().ShellTimeout
	log := b.log.With(logx.Int64("from_id", c.Sender().ID))
	b.jobs.Go("shell", func(ctx context.Context) error {
		log.Info("shell command started", logx.String("code", tgui.TruncRunes(code, 200)))
		res, err := RunShell(ctx, code, timeout)
		if err != nil {
			_ = c.Reply(i18n.Format(strs("sh_failed", categoryMisc), map[string]string{
				"error": tgui.Esc(err.Error()).String(),
			}), tele.ModeHTML)
			return err
		}
		log.Info("shell command finished",
			logx.Int("exit_code", res.ExitCode),
			logx.Duration("dur", res.Duration),
			logx.Bool("timed_out", res.TimedOut),
		)
		return c.Reply(formatShellResult(res, strs("sh_empty", categoryMisc)), tele.ModeHTML)
	})
	return nil
}

func formatShellResult(res ShellResult, empty string) string {
	out := res.Output
	if strings.TrimSpace(out) == "" {
		out = empty
	}
	parts := []tgui.H{tgui.Pre(tgui.TruncRunes(out, 3500))}
	switch {
	case res.TimedOut:
		parts = append(parts, tgui.I("timed out after "+res.Duration.Round(time.Millisecond).String()))
	case res.ExitCode != 0:
		parts = append(parts, tgui.I("exit status "+strconv.Itoa(res.ExitCode)))
	}
	return tgui.JoinH("\n", parts...).String()
}
