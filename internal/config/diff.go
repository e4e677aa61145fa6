package config

import (
	"slices"
	"sort"
	"strings"

	logx "chatkit/pkg/logx"
)

// SummarizeConfigChange returns the sorted list of changed sections and safe
// structured attrs for logging. The bot token is never included.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 4)
	attrs := make([]logx.Field, 0, 16)

	ot, nt := oldCfg.Telegram, newCfg.Telegram
	if strings.TrimSpace(ot.PollTimeout) != strings.TrimSpace(nt.PollTimeout) ||
		!slices.Equal(ot.OwnerUserIDs, nt.OwnerUserIDs) ||
		ot.Token != nt.Token {
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.String("telegram.poll_timeout", strings.TrimSpace(nt.PollTimeout)),
			logx.Int("telegram.owner_count", len(nt.OwnerUserIDs)),
			logx.Bool("telegram.token_changed", ot.Token != nt.Token),
		)
	}

	if oldCfg.Logging != newCfg.Logging {
		nl := newCfg.Logging
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", nl.Level),
			logx.Bool("logging.console", nl.Console),
			logx.Bool("logging.file_enabled", nl.File.Enabled),
			logx.Bool("logging.telegram_enabled", nl.Telegram.Enabled),
			logx.Bool("logging.telegram_chat_set", nl.Telegram.ChatID != 0),
		)
	}

	if oldCfg.I18n != newCfg.I18n {
		changed = append(changed, "i18n")
		attrs = append(attrs,
			logx.String("i18n.dir", strings.TrimSpace(newCfg.I18n.Dir)),
			logx.String("i18n.default_lang", strings.TrimSpace(newCfg.I18n.DefaultLang)),
		)
	}

	if oldCfg.Bot != newCfg.Bot {
		changed = append(changed, "bot")
		attrs = append(attrs,
			logx.Duration("bot.shell_timeout", newCfg.ShellTimeout()),
			logx.Int("bot.notes_page_size", newCfg.Bot.PageSize()),
			logx.Int("bot.max_notes", newCfg.Bot.NoteLimit()),
		)
	}

	sort.Strings(changed)
	return changed, attrs
}

// RequiresRestart reports changed sections that only take effect on the next
// start (the token and the poll timeout are bound when the bot is created).
func RequiresRestart(oldCfg, newCfg *Config) bool {
	if oldCfg == nil || newCfg == nil {
		return false
	}
	return oldCfg.Telegram.Token != newCfg.Telegram.Token ||
		strings.TrimSpace(oldCfg.Telegram.PollTimeout) != strings.TrimSpace(newCfg.Telegram.PollTimeout) ||
		oldCfg.I18n != newCfg.I18n
}
