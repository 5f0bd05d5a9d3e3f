package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"cityhub/internal/config"
	"cityhub/internal/database"
	"cityhub/internal/repository"
)

// One-shot sweep of expired refresh-token rows, meant for cron. The API
// server runs the same sweep hourly; this binary exists for deployments
// that prefer an external scheduler.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tokens := repository.NewRefreshTokenRepository(db)
	deleted, err := tokens.DeleteExpired(ctx)
	if err != nil {
		log.Fatalf("token cleanup failed: %v", err)
	}

	log.Printf("token cleanup completed: removed=%d", deleted)
}
