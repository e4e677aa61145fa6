package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"chatkit/internal/bot"
	"chatkit/internal/commands"
	"chatkit/internal/config"
	"chatkit/internal/i18n"
	"chatkit/internal/perms"
	"chatkit/internal/runtime/supervisor"
	"chatkit/internal/transport/telegram/adapter"
	logx "chatkit/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.json", "path to config (json or yaml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	boot := logx.NewConsole("info")
	cm := config.NewConfigManager(cfgPath)
	cm.SetLogger(boot)
	cm.SetValidator(config.CheckLocaleDir)
	cfg, err := cm.Load()
	if err != nil {
		boot.Error("config load failed", logx.String("path", cm.Path()), logx.Err(err))
		return fmt.Errorf("load config %s: %w", cm.Path(), err)
	}

	logs, log := logx.New(cfg.Logging.ToLogx())
	defer logs.Close()
	cm.SetLogger(log.With(logx.String("comp", "config")))

	bundle, err := i18n.Load(cfg.I18n.Dir, cfg.I18n.DefaultLang)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	for _, issue := range bundle.Lint() {
		log.Warn("locale issue", logx.String("detail", issue))
	}

	tg, err := adapter.New(adapter.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.PollTimeout(),
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	logs.SetSender(tg)

	sudoers := perms.NewSudoers(cfg.Telegram.OwnerUserIDs)
	b := bot.New(bot.Deps{
		Bundle:   bundle,
		Registry: commands.NewRegistry(),
		Checker:  perms.NewChecker(tg.Bot(), log.With(logx.String("comp", "perms"))),
		Sudoers:  sudoers,
		Sender:   tg,
		Menu:     tg,
		Log:      log,
	}, botOptions(cfg))
	b.Register(ctx, tg.Bot())

	if err := b.SyncMenu(ctx); err != nil {
		log.Warn("menu sync failed", logx.Err(err))
	}
	if err := tg.Start(ctx); err != nil {
		return fmt.Errorf("telegram start: %w", err)
	}

	sup := supervisor.NewSupervisor(ctx, supervisor.WithLogger(log.With(logx.String("comp", "supervisor"))))
	updates := cm.Subscribe(4)
	defer cm.Unsubscribe(updates)
	sup.Go("config.watch", cm.Watch)

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Debug("sd_notify failed", logx.Err(err))
	} else if ok {
		log.Debug("sd_notify ready sent")
	}
	log.Info("bot started",
		logx.String("config", cm.Path()),
		logx.Any("owners", sudoers.List()),
		logx.Strings("languages", bundle.Languages()),
	)

	current := cm.Get()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = tg.Stop(stopCtx)
			if err := b.Stop(stopCtx); err != nil {
				log.Warn("shell commands still running", logx.Err(err))
			}
			if err := sup.Stop(stopCtx); err != nil {
				log.Warn("supervisor stop", logx.Err(err))
			}
			return nil
		case next, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			changed, attrs := config.SummarizeConfigChange(current, next)
			if len(changed) == 0 {
				continue
			}
			logs.Apply(next.Logging.ToLogx())
			sudoers.Set(next.Telegram.OwnerUserIDs)
			log.Debug("owners updated", logx.Any("owners", sudoers.List()))
			b.Apply(botOptions(next))
			log.Info("config reloaded", append(attrs, logx.Strings("changed", changed))...)
			if config.RequiresRestart(current, next) {
				log.Warn("some changes take effect after restart", logx.Strings("changed", changed))
			}
			current = next
		}
	}
}

func botOptions(cfg *config.Config) bot.Options {
	return bot.Options{
		ShellTimeout: cfg.ShellTimeout(),
		PageSize:     cfg.Bot.PageSize(),
		MaxNotes:     cfg.Bot.NoteLimit(),
	}
}
