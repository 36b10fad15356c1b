package app

import (
	"context"

	"homeworkbot/internal/config"
	"homeworkbot/internal/notifier"
	"homeworkbot/internal/poller"
	"homeworkbot/internal/practicum"
	kit "homeworkbot/internal/transport"
	telegram "homeworkbot/internal/transport/telegram/adapter"
	logx "homeworkbot/pkg/logx"
)

// App owns every long-lived component of the bot.
type App struct {
	cfg *config.Config

	log  logx.Logger
	logs *logx.Service

	adapter kit.Sender
	notif   *notifier.Service
	client  *practicum.Client
	poller  *poller.Poller
}

// New builds the App. It does not touch the network: the Telegram adapter is
// created offline and the first request happens in Run.
func New(cfg *config.Config) (*App, error) {
	logs, log := NewLogService(cfg.Logging)

	ad, err := telegram.New(telegram.Config{
		Token:   cfg.Telegram.Token,
		URL:     cfg.Telegram.APIURL,
		Timeout: cfg.Telegram.Timeout,
		Offline: true,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		_ = logs.Close()
		return nil, err
	}
	return assemble(cfg, logs, log, ad), nil
}

// NewLogService builds the log sinks described by lc.
func NewLogService(lc config.LoggingConfig) (*logx.Service, logx.Logger) {
	return logx.New(logx.Config{
		Level:   lc.Level,
		Console: lc.Console,
		File: logx.FileConfig{
			Enabled:    lc.File.Enabled,
			Path:       lc.File.Path,
			MaxSizeMB:  lc.File.MaxSizeMB,
			MaxBackups: lc.File.MaxBackups,
			MaxAgeDays: lc.File.MaxAgeDays,
			Compress:   lc.File.Compress,
		},
		Fluent: logx.FluentConfig{
			Enabled:  lc.Fluent.Enabled,
			Host:     lc.Fluent.Host,
			Port:     lc.Fluent.Port,
			MinLevel: lc.Fluent.MinLevel,
		},
	})
}

// assemble wires the components around an already built sender.
func assemble(cfg *config.Config, logs *logx.Service, log logx.Logger, sender kit.Sender) *App {
	notif := notifier.New(notifier.Config{
		Target:     kit.ChatTarget{ChatID: cfg.Telegram.ChatID},
		RatePerSec: cfg.Telegram.RatePerSec,
	}, sender, log.With(logx.String("comp", "notifier")))

	client := practicum.NewClient(practicum.Config{
		Endpoint: cfg.Practicum.Endpoint,
		Token:    cfg.Practicum.Token,
		Timeout:  cfg.Practicum.Timeout,
	})

	p := poller.New(poller.Config{Interval: cfg.Poll.Interval}, client, notif, log.With(logx.String("comp", "poller")))

	return &App{
		cfg:     cfg,
		log:     log,
		logs:    logs,
		adapter: sender,
		notif:   notif,
		client:  client,
		poller:  p,
	}
}

// Run blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting homework bot", logx.Any("config", a.cfg.Redacted()))
	err := a.poller.Run(ctx)
	st := a.poller.Status()
	a.log.Info("homework bot stopped",
		logx.Int("iterations", st.Iterations),
		logx.Int("history", len(a.notif.Snapshot())))
	return err
}

func (a *App) Logger() logx.Logger { return a.log }

// Close releases the log sinks.
func (a *App) Close() error {
	if a.logs == nil {
		return nil
	}
	return a.logs.Close()
}
