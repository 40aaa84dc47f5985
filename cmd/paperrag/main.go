package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"PaperRAG/internal/app"
	"PaperRAG/internal/config"
	"PaperRAG/internal/logging"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
