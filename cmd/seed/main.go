package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Drbrilliant360/courier-insight-ai/internal/auth"
)

// Seeds a development database with an API token and a few couriers so the
// ingestion endpoint and dashboard reads can be exercised right away.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	token, err := auth.GenerateToken()
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO api_tokens (name, token_hash)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET token_hash = EXCLUDED.token_hash
	`, "dev", auth.HashToken(token))
	if err != nil {
		log.Fatalf("seed api token: %v", err)
	}

	couriers := []struct {
		name    string
		status  string
		vehicle string
		rating  float64
	}{
		{"Amina Hassan", "available", "bike", 4.8},
		{"Joseph Mwangi", "busy", "motorcycle", 4.5},
		{"Fatma Ali", "available", "van", 4.9},
	}
	for _, c := range couriers {
		_, err := pool.Exec(ctx, `
			INSERT INTO couriers (name, status, vehicle_type, rating)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, c.name, c.status, c.vehicle, c.rating)
		if err != nil {
			log.Fatalf("seed courier %s: %v", c.name, err)
		}
	}

	fmt.Printf("seeded %d couriers\n", len(couriers))
	fmt.Printf("API token (dev): %s\n", token)
}
