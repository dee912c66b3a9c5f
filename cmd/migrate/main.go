package main

import (
	"context"
	"log"

	"filescope/internal/config"
	"filescope/internal/database"
	"filescope/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	count, err := migrations.Apply(context.Background(), db)
	if err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	log.Printf("migrations applied: %d new", count)
}
