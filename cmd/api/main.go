package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := bootstrap.NewLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start")
	}
	if err := app.Run(ctx); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
	logger.Info("server stopped")
}
