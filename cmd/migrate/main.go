package main

// Applies pending schema migrations against DATABASE_URL:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"resume-parser-backend/internal/shared/config"
	"resume-parser-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("migrate: connect failed: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("migrate: apply failed: %v", err)
		os.Exit(1)
	}
	log.Println("migrations up to date")
}
