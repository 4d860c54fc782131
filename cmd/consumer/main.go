package main

import (
	"context"
	"os/signal"
	"syscall"

	"go-lams/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsumer(ctx, app.LoadConfig(), logger); err != nil {
		logger.Fatal("consumer failed", zap.Error(err))
	}
}
