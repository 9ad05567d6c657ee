// Command server runs the Bank ABC back-office API: bearer-token
// authentication plus the employee and customer directory endpoints.
//
// @title        Bank ABC Back-Office API
// @version      1.0
// @description  Authentication and back-office directory service.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/bankabc/backoffice-api/docs"
	"github.com/bankabc/backoffice-api/internal/api"
	"github.com/bankabc/backoffice-api/internal/core/token"
	"github.com/bankabc/backoffice-api/internal/infrastructure/config"
	mongodb "github.com/bankabc/backoffice-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bankabc/backoffice-api/internal/infrastructure/db/redis"
	"github.com/bankabc/backoffice-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	ring, err := token.LoadKeyring(
		token.Algorithm(cfg.Auth.Algorithm),
		cfg.Auth.Secret,
		cfg.Auth.PreviousSecrets,
		cfg.Auth.PrivateKeyFile,
		cfg.Auth.PreviousKeyFiles,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("signing keyring load failed")
	}
	codec := token.NewCodec(ring, token.WithClockSkew(cfg.Auth.ClockSkew))

	e := api.NewRouter(db, rdb, codec, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
