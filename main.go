package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	v1 "github.com/epasal/epasal-backend/internal/api/v1"
	"github.com/epasal/epasal-backend/internal/db"
	"github.com/epasal/epasal-backend/pkg/config"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := db.ClearTempTables(ctx, pool); err != nil {
		log.Warn().Err(err).Msg("failed to clear temp tables")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(v1.RequestLogger(log))
	r.Use(v1.CORSMiddleware(cfg.FrontendOrigin))
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("failed to configure trusted proxies")
	}

	api := v1.New(cfg, pool, log)
	api.Register(r)
	defer api.Tasks().Wait()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
