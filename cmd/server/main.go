// Command server runs the audience-insights HTTP API: it wires configuration,
// logging, tracing, the SQLite store, the YouTube retrieval client, and the
// Gin router, then serves until interrupted.
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
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/tbourn/go-audience-insights/internal/config"
	httpapi "github.com/tbourn/go-audience-insights/internal/http"
	"github.com/tbourn/go-audience-insights/internal/observability"
	"github.com/tbourn/go-audience-insights/internal/repo"
	"github.com/tbourn/go-audience-insights/internal/services"
	"github.com/tbourn/go-audience-insights/internal/sysutil"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

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
	if cfg.OTEL.Enabled {
		if err := repo.WithTracing(db); err != nil {
			log.Fatal().Err(err).Msg("db tracing plugin failed")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	ytSvc, err := yt.NewService(ctx, option.WithAPIKey(cfg.YouTube.APIKey))
	if err != nil {
		log.Fatal().Err(err).Msg("youtube service init failed")
	}
	src := services.NewYouTubeSource(youtube.NewClient(ytSvc,
		youtube.WithOrder(cfg.YouTube.CommentOrder),
		youtube.WithPageInterval(cfg.YouTube.PageInterval),
	))

	r := gin.New()
	httpapi.RegisterRoutes(r, db, src, cfg)

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
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
