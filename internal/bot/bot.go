// Package bot wires the chat helpers into Telegram command handlers: notes
// with inline buttons, help listings, moderation and owner tools.
package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"chatkit/internal/commands"
	"chatkit/internal/i18n"
	"chatkit/internal/perms"
	"chatkit/internal/runtime/supervisor"
	kit "chatkit/internal/transport"
	logx "chatkit/pkg/logx"
)

const (
	categoryAdmin = "admin"
	categoryNotes = "notes"
	categoryMisc  = "misc"
)

// Options are the runtime-tunable settings, see Bot.Apply.
type Options struct {
	ShellTimeout time.Duration
	PageSize     int
	MaxNotes     int
}

type Deps struct {
	Bundle   *i18n.Bundle
	Registry *commands.Registry
	Checker  *perms.Checker
	Sudoers  *perms.Sudoers
	Sender   kit.Sender
	Menu     kit.CommandMenuUpdater
	Log      logx.Logger
}

// moderator is the part of *tele.Bot used by moderation commands.
type moderator interface {
	usernameLookup
	Restrict(chat *tele.Chat, member *tele.ChatMember) error
}

type Bot struct {
	deps  Deps
	log   logx.Logger
	notes *Notebook

	ctx context.Context
	mod moderator

	optMu sync.RWMutex
	opt   Options

	// background shell commands, set by Register
	jobs *supervisor.Supervisor
}

type route struct {
	cmd     commands.Command
	handler tele.HandlerFunc
	mw      []tele.MiddlewareFunc
}

func New(deps Deps, opt Options) *Bot {
	log := deps.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	if deps.Registry == nil {
		deps.Registry = commands.NewRegistry()
	}
	if deps.Sudoers == nil {
		deps.Sudoers = perms.NewSudoers(nil)
	}
	b := &Bot{
		deps:  deps,
		log:   log.With(logx.String("comp", "bot")),
		notes: NewNotebook(opt.MaxNotes),
		ctx:   context.Background(),
	}
	b.Apply(opt)
	return b
}

// Apply swaps runtime options. It is safe to call concurrently with
// handlers.
func (b *Bot) Apply(opt Options) {
	b.optMu.Lock()
	b.opt = opt
	b.optMu.Unlock()
	b.notes.SetLimit(opt.MaxNotes)
}

func (b *Bot) options() Options {
	b.optMu.RLock()
	defer b.optMu.RUnlock()
	return b.opt
}

func (b *Bot) routes() []route {
	sudo := b.deps.Sudoers.Only(func(c tele.Context) error {
		return c.Reply(b.strings(c)("sudo_only"))
	})
	return []route{
		{cmd: commands.Command{Name: "start", Category: categoryMisc}, handler: b.onStart},
		{cmd: commands.Command{Name: "help", Category: categoryMisc}, handler: b.onHelp},
		{cmd: commands.Command{Name: "emojis", Category: categoryMisc}, handler: b.onEmojis},
		{cmd: commands.Command{Name: "sh", Category: categoryMisc}, handler: b.onShell, mw: []tele.MiddlewareFunc{sudo}},
		{cmd: commands.Command{Name: "save", Category: categoryNotes}, handler: b.onSave},
		{cmd: commands.Command{Name: "get", Category: categoryNotes}, handler: b.onGet},
		{cmd: commands.Command{Name: "notes", Category: categoryNotes}, handler: b.onNotes},
		{cmd: commands.Command{Name: "clear", Category: categoryNotes}, handler: b.onClear},
		{cmd: commands.Command{Name: "mute", Category: categoryAdmin}, handler: b.onMute},
	}
}

// registerCommands records every route in the registry and returns them.
func (b *Bot) registerCommands() []route {
	rs := b.routes()
	for _, r := range rs {
		b.deps.Registry.Add(r.cmd)
	}
	return rs
}

// Register installs middleware and handlers on tb. Handlers derive their
// contexts from ctx.
func (b *Bot) Register(ctx context.Context, tb *tele.Bot) {
	b.ctx = ctx
	b.mod = tb
	b.jobs = supervisor.NewSupervisor(ctx, supervisor.WithLogger(b.log))
	tb.Use(Recover(b.log), RequestLog(b.log))
	for _, r := range b.registerCommands() {
		tb.Handle("/"+r.cmd.Name, r.handler, r.mw...)
	}
	tb.Handle(tele.OnText, b.onText)
}

// SyncMenu publishes the command list, in the default language, as the
// Telegram command menu.
func (b *Bot) SyncMenu(ctx context.Context) error {
	if b.deps.Menu == nil || b.deps.Bundle == nil {
		return nil
	}
	strs := b.deps.Bundle.For(b.deps.Bundle.Default())
	return b.deps.Menu.UpdateMenuCommands(ctx, b.deps.Registry.Menu(strs))
}

// Stop cancels running shell commands and waits for them, bounded by ctx.
func (b *Bot) Stop(ctx context.Context) error {
	if b.jobs == nil {
		return nil
	}
	return b.jobs.Stop(ctx)
}

func (b *Bot) strings(c tele.Context) i18n.Func {
	if b.deps.Bundle == nil {
		return func(key string, _ ...string) string { return key }
	}
	lang := ""
	if c != nil && c.Sender() != nil {
		lang = c.Sender().LanguageCode
	}
	return b.deps.Bundle.For(lang)
}

// requireAdmin passes in private chats; elsewhere it checks rights and
// complains to the caller when they are missing.
func (b *Bot) requireAdmin(c tele.Context, rights ...string) (bool, error) {
	chat := c.Chat()
	if chat != nil && chat.Type == tele.ChatPrivate {
		return true, nil
	}
	if b.deps.Checker == nil {
		return false, errors.New("bot: no permission checker")
	}
	ctx, cancel := context.WithTimeout(b.ctx, 10*time.Second)
	defer cancel()
	return b.deps.Checker.Check(ctx, chat, c.Sender(), rights, b.strings(c), perms.ReplyComplainer(c))
}

func payload(c tele.Context) string {
	if msg := c.Message(); msg != nil {
		return msg.Payload
	}
	return ""
}
