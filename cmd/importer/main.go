package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	equipmentapp "github.com/equipment/backend/internal/application/equipment"
	"github.com/equipment/backend/internal/infrastructure/config"
	"github.com/equipment/backend/internal/infrastructure/logger"
	"github.com/equipment/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Bulk-loads equipment records from JSON files. Each file holds an array of
// items in the same shape the /equipment/import-json endpoint accepts, so
// exports from the old spreadsheet workflow can be replayed offline.
func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "dir", "", "Directory of JSON files (default: batch.json_import_dir from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if dir == "" {
		dir = cfg.Batch.JSONImportDir
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := persistence.NewGormEquipmentRepository(db.DB)
	svc := equipmentapp.NewService(repo, nil, log)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal("Failed to read import directory", zap.String("dir", dir), zap.Error(err))
	}

	ctx := context.Background()
	totalImported := 0
	totalFailed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("Failed to read file", zap.String("file", path), zap.Error(err))
			totalFailed++
			continue
		}

		var items []equipmentapp.ImportItem
		if err := json.Unmarshal(data, &items); err != nil {
			log.Error("Invalid JSON", zap.String("file", path), zap.Error(err))
			totalFailed++
			continue
		}

		imported, errs := svc.ImportJSON(ctx, items)
		totalImported += imported
		totalFailed += len(errs)
		for _, e := range errs {
			log.Warn("Item skipped",
				zap.String("file", path),
				zap.Int("index", e.Index),
				zap.String("reason", e.Error),
			)
		}
		log.Info("File imported",
			zap.String("file", entry.Name()),
			zap.Int("imported", imported),
			zap.Int("failed", len(errs)),
		)
	}

	log.Info("Import finished",
		zap.Int("imported", totalImported),
		zap.Int("failed", totalFailed),
	)
	if totalImported == 0 && totalFailed > 0 {
		os.Exit(1)
	}
}
