package main

import (
	"context"
	"log"

	"golime/internal/config"
	"golime/internal/container"
	"golime/internal/errors"
	"golime/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to the archive database and applies migrations
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	var migrator migration.Migrator = migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	log.Printf("Database schema at version %s", migrator.Version())

	return db, nil
}

// serve runs the HTTP server until it fails and releases the container on the way out
func serve(appContainer *container.Container, addr string) error {
	defer appContainer.Shutdown(context.Background())

	log.Printf("Starting reverse normalization server on %s", addr)
	return appContainer.Server().Start(addr)
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	if appConfig.Database.Enabled() {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			db.Close()
			log.Fatalf("Failed to initialize container: %v", err)
		}
	} else {
		appContainer.Logger.Warn("DATABASE_URL not set, explanations will not be archived")
	}

	if err := serve(appContainer, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
