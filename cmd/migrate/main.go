package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golime/adapters/postgres"
	"golime/domain/core"
	"golime/internal/migration"
	"golime/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [archive_dir]")
	}

	databaseURL := os.Args[1]

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	var runner migration.Migrator = migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}
	archiveDir := os.Args[2]

	files, err := findRecordFiles(archiveDir)
	if err != nil {
		log.Fatalf("Failed to find archive files: %v", err)
	}
	log.Printf("Found %d archived explanations to import from %s", len(files), archiveDir)

	repo := postgres.NewExplanationRepository(db)
	migrated := 0
	skipped := 0

	for _, file := range files {
		record, err := loadRecordFromFile(file)
		if err != nil {
			log.Printf("Failed to load record from %s: %v", file, err)
			skipped++
			continue
		}

		if err := repo.Save(ctx, record); err != nil {
			log.Printf("Failed to save explanation %s: %v", record.ID, err)
			skipped++
			continue
		}

		migrated++
		log.Printf("Imported explanation %s from %s", record.ID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", migrated, skipped)
}

func findRecordFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// loadRecordFromFile reads an archive envelope as served by GET /api/v1/explanations/:id
func loadRecordFromFile(filePath string) (*ports.ExplanationRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var record ports.ExplanationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	id, err := core.ParseExplanationID(record.ID.String())
	if err != nil {
		// Fallback: generate a fresh ID for envelopes exported without one
		id = core.NewExplanationID()
	}
	record.ID = id
	if record.Explanation != nil {
		record.Explanation.ID = id
	}

	return &record, nil
}
