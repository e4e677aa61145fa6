package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	logx "chatkit/pkg/logx"
)

// Config is the on-disk bot configuration (JSON or YAML).
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	I18n     I18nConfig     `json:"i18n"`
	Bot      BotConfig      `json:"bot"`
}

type TelegramConfig struct {
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ChatID     int64  `json:"chat_id"`
	ThreadID   int    `json:"thread_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// I18nConfig selects the locale directory overlaid on the embedded strings.
type I18nConfig struct {
	Dir         string `json:"dir,omitempty"`
	DefaultLang string `json:"default_lang,omitempty"`
}

// BotConfig tunes command behaviour.
//
// Defaults (when fields are omitted/zero):
//   - shell_timeout: "30s"
//   - notes_page_size: 20
//   - max_notes: 500 per chat
type BotConfig struct {
	ShellTimeout  string `json:"shell_timeout,omitempty"`
	NotesPageSize int    `json:"notes_page_size,omitempty"`
	MaxNotes      int    `json:"max_notes,omitempty"`
}

const (
	DefaultShellTimeout  = 30 * time.Second
	DefaultNotesPageSize = 20
	DefaultMaxNotes      = 500
	DefaultPollTimeout   = 10 * time.Second
)

// Validate rejects configs the bot cannot start with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("bot.shell_timeout", c.Bot.ShellTimeout); err != nil {
		return err
	}
	if c.Bot.NotesPageSize < 0 {
		return fmt.Errorf("bot.notes_page_size: must be >= 0")
	}
	if c.Bot.MaxNotes < 0 {
		return fmt.Errorf("bot.max_notes: must be >= 0")
	}
	if c.Logging.Telegram.RatePerSec < 0 {
		return fmt.Errorf("logging.telegram.rate_per_sec: must be >= 0")
	}
	return nil
}

// CheckLocaleDir rejects a config whose i18n.dir is set but is not a
// readable directory. Locales are only loaded at startup, so a reload
// pointing elsewhere would otherwise go unnoticed until the next restart.
func CheckLocaleDir(_ context.Context, cfg *Config) error {
	dir := strings.TrimSpace(cfg.I18n.Dir)
	if dir == "" {
		return nil
	}
	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("i18n.dir: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("i18n.dir: %s is not a directory", dir)
	}
	return nil
}

// PollTimeout returns telegram.poll_timeout, or DefaultPollTimeout.
func (c *Config) PollTimeout() time.Duration {
	d, err := ParseDurationOrDefault("telegram.poll_timeout", c.Telegram.PollTimeout, DefaultPollTimeout)
	if err != nil {
		return DefaultPollTimeout
	}
	return d
}

// ShellTimeout returns bot.shell_timeout, or DefaultShellTimeout.
func (c *Config) ShellTimeout() time.Duration {
	d, err := ParseDurationOrDefault("bot.shell_timeout", c.Bot.ShellTimeout, DefaultShellTimeout)
	if err != nil {
		return DefaultShellTimeout
	}
	return d
}

func (b BotConfig) PageSize() int {
	if b.NotesPageSize <= 0 {
		return DefaultNotesPageSize
	}
	return b.NotesPageSize
}

func (b BotConfig) NoteLimit() int {
	if b.MaxNotes <= 0 {
		return DefaultMaxNotes
	}
	return b.MaxNotes
}

// ToLogx maps the logging section onto the logger service config.
func (l LoggingConfig) ToLogx() logx.Config {
	return logx.Config{
		Level:   l.Level,
		Console: l.Console,
		File:    logx.FileConfig{Enabled: l.File.Enabled, Path: l.File.Path},
		Telegram: logx.TelegramConfig{
			Enabled:    l.Telegram.Enabled,
			ChatID:     l.Telegram.ChatID,
			ThreadID:   l.Telegram.ThreadID,
			MinLevel:   l.Telegram.MinLevel,
			RatePerSec: l.Telegram.RatePerSec,
		},
	}
}
