package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tasksApp/internal/app"
	"tasksApp/internal/config"
	"tasksApp/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		return err
	}

	logger.Info("App: starting")
	return application.Run(ctx)
}
