package bot

import (
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"

	"chatkit/internal/i18n"
	"chatkit/internal/perms"
	logx "chatkit/pkg/logx"
	"chatkit/pkg/textkit"
	"chatkit/pkg/tgui"
)

const untilLayout = "2006-01-02 15:04 UTC"

// muteRequest is a parsed /mute command.
type muteRequest struct {
	Target *tele.User
	Until  time.Time
	Reason string
}

// parseMute reads "/mute <target> <duration> [reason]"; with a reply the
// target is omitted. Input errors are returned as the text to reply with.
func parseMute(msg *tele.Message, lookup usernameLookup, now time.Time, strs i18n.Func) (muteRequest, string) {
	target, err := resolveTarget(msg, lookup)
	if err != nil {
		if errors.Is(err, errNoTarget) && !hasTargetArg(msg) {
			return muteRequest{}, strs("mute_usage", categoryAdmin)
		}
		return muteRequest{}, strs("user_not_found", categoryAdmin)
	}
	args, ok := commandArgs(msg)
	if !ok {
		return muteRequest{}, strs("mute_usage", categoryAdmin)
	}
	dur, reason := splitDuration(args)
	until, err := textkit.ExtractTime(dur, now)
	if err != nil {
		return muteRequest{}, err.Error()
	}
	return muteRequest{Target: target, Until: until, Reason: reason}, ""
}

func hasTargetArg(msg *tele.Message) bool {
	return msg != nil && len(msg.Text) > 0 && textkit.DropFields(msg.Text, 1) != ""
}

func (b *Bot) onMute(c tele.Context) error {
	if ok, err := b.requireAdmin(c, perms.CanRestrictMembers); !ok || err != nil {
		return err
	}
	strs := b.strings(c)
	if b.mod == nil {
		return errors.New("bot: moderation is not available")
	}

	req, problem := parseMute(c.Message(), b.mod, time.Now(), strs)
	if problem != "" {
		return c.Reply(problem)
	}

	member := &tele.ChatMember{
		User:            req.Target,
		Rights:          tele.NoRights(),
		RestrictedUntil: req.Until.Unix(),
	}
	if err := b.mod.Restrict(c.Chat(), member); err != nil {
		b.log.Warn("mute failed",
			logx.Err(err),
			logx.Int64("chat_id", c.Chat().ID),
			logx.Int64("user_id", req.Target.ID),
		)
		return c.Reply(i18n.Format(strs("mute_failed", categoryAdmin), map[string]string{
			"error": err.Error(),
		}))
	}

	name := req.Target.FirstName
	if name == "" {
		name = req.Target.Username
	}
	if name == "" {
		name = "user"
	}
	args := map[string]string{
		"user":  tgui.Mention(name, req.Target.ID).String(),
		"until": tgui.Esc(req.Until.UTC().Format(untilLayout)).String(),
	}
	key := "muted"
	if req.Reason != "" {
		key = "muted_reason"
		args["reason"] = tgui.Esc(req.Reason).String()
	}
	return c.Reply(i18n.Format(strs(key, categoryAdmin), args), tele.ModeHTML)
}
