// Command seed downloads the default NCERT catalog, records it in the
// database, and triggers embedding for each new document. Safe to run
// repeatedly; already-seeded documents are skipped.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/beyondchart/go-study-backend/internal/config"
	"github.com/beyondchart/go-study-backend/internal/embedder"
	"github.com/beyondchart/go-study-backend/internal/repo"
	"github.com/beyondchart/go-study-backend/internal/seed"
	"github.com/beyondchart/go-study-backend/internal/sysutil"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	s := &seed.Seeder{
		DB:      db,
		Indexer: embedder.New(cfg.AI.EmbedderURL, cfg.AI.QueryTimeout, cfg.AI.IngestTimeout),
		Dir:     filepath.Join(cfg.UploadDir, "default"),
	}
	if err := s.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("default catalog seeded")
}
