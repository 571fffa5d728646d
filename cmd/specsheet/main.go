package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/equipment/backend/internal/application/extraction"
	"github.com/equipment/backend/internal/infrastructure/config"
	"github.com/equipment/backend/internal/infrastructure/llm"
	"github.com/equipment/backend/internal/infrastructure/logger"
	"github.com/equipment/backend/internal/infrastructure/pdf"
	"github.com/equipment/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Registers equipment from manufacturer spec sheet PDFs. Text is pulled from
// each PDF and structured by the LLM, which needs a configured Gemini key.
func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: specsheet [flags] <file.pdf> [file.pdf ...]")
		os.Exit(1)
	}

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

	llmClient := llm.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model,
		llm.WithGeminiLogger(log),
		llm.WithGeminiTimeout(cfg.Gemini.Timeout),
	)
	if !llmClient.Configured() {
		log.Fatal("A Gemini API key is required for spec sheet extraction")
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
	pipeline := extraction.NewPipeline(nil, llmClient, nil, repo, nil, log)

	ctx := context.Background()
	processed := 0
	for _, path := range paths {
		text, err := pdf.ExtractText(path)
		if err != nil {
			if errors.Is(err, pdf.ErrNoText) {
				log.Warn("No extractable text, skipping", zap.String("file", path))
			} else {
				log.Error("Failed to read PDF", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		eq, err := pipeline.ProcessSpecSheet(ctx, filepath.Base(path), text)
		if err != nil {
			log.Error("Extraction failed", zap.String("file", path), zap.Error(err))
			continue
		}
		log.Info("Registered",
			zap.String("file", path),
			zap.Int64("id", eq.ID),
			zap.String("name", eq.Name),
			zap.String("model", eq.ModelNumber),
		)
		processed++
	}

	log.Info("Done", zap.Int("processed", processed), zap.Int("total", len(paths)))
	if processed == 0 {
		os.Exit(1)
	}
}
