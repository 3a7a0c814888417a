// Command server runs the study-assistant HTTP API.
//
// Startup order:
//  1. Load .env (best effort) and environment configuration
//  2. Configure zerolog and OpenTelemetry
//  3. Open SQLite, run migrations
//  4. Construct external clients (embedder, Gemini) and the file store
//  5. Register routes and serve until SIGINT/SIGTERM, then drain
//
// @title                      Study Assistant API
// @version                    1.0
// @description                RAG-backed study assistant: PDF upload, grounded chat, quizzes, dashboard, and video recommendations.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/beyondchart/go-study-backend/docs"
	"github.com/beyondchart/go-study-backend/internal/ai"
	"github.com/beyondchart/go-study-backend/internal/auth"
	"github.com/beyondchart/go-study-backend/internal/config"
	"github.com/beyondchart/go-study-backend/internal/embedder"
	httpapi "github.com/beyondchart/go-study-backend/internal/http"
	"github.com/beyondchart/go-study-backend/internal/observability"
	"github.com/beyondchart/go-study-backend/internal/repo"
	"github.com/beyondchart/go-study-backend/internal/storage"
	"github.com/beyondchart/go-study-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Local development convenience; absence of .env is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload dir unavailable")
	}

	emb := embedder.New(cfg.AI.EmbedderURL, cfg.AI.QueryTimeout, cfg.AI.IngestTimeout)
	gemini, err := ai.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.GenerateTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("gemini client init failed")
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:        db,
		Store:     store,
		Embedder:  emb,
		Generator: gemini,
		Tokens:    tokens,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(dctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
