// Command cachetool initialises the Postgres geocode cache schema for
// deployments using GEOCODE_CACHE=postgres.
package main

import (
	"log"
	"os"
	"strings"

	"routesmart-service/internal/adapters/cache"
	"routesmart-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pdb, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pdb.Close()

	log.Println("Initializing geocode cache schema...")
	if err := cache.InitPostgresSchema(pdb); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
