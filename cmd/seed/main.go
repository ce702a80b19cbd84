package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kirillkom/docrouter/internal/config"
	"github.com/kirillkom/docrouter/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docrouter/internal/observability/logging"
	"github.com/kirillkom/docrouter/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New("seed", cfg.LogLevel, cfg.LogFormat)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	defer db.Close()

	contexts := postgres.NewContextRepository(db)
	if err := contexts.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	inserted, err := seed.Apply(ctx, contexts, logger)
	if err != nil {
		log.Fatalf("seed contexts: %v", err)
	}
	log.Printf("seed done, %d contexts inserted", inserted)
}
