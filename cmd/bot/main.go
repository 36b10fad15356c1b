package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homeworkbot/internal/app"
	"homeworkbot/internal/config"
	logx "homeworkbot/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		// No usable config: report through the default sinks so the line also
		// lands in main.log.
		fatal(config.Defaults().Logging, "configuration rejected", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		fatal(cfg.Logging, "startup failed", err)
	}

	if err := a.Run(ctx); err != nil {
		a.Logger().Error("run failed", logx.Err(err))
		_ = a.Close()
		os.Exit(1)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close:", err)
	}
}

func fatal(lc config.LoggingConfig, msg string, err error) {
	logs, log := app.NewLogService(lc)
	log.Critical(msg, logx.Err(err))
	_ = logs.Close()
	os.Exit(1)
}
