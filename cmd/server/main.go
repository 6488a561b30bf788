package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brightfold/portal-api/internal/api"
	"github.com/brightfold/portal-api/internal/infrastructure/db/mongo"
	"github.com/brightfold/portal-api/internal/infrastructure/db/redis"
	"github.com/brightfold/portal-api/internal/infrastructure/notify"
	"github.com/brightfold/portal-api/internal/infrastructure/realtime"
	"github.com/brightfold/portal-api/internal/infrastructure/storage"
	"github.com/brightfold/portal-api/internal/pkg/config"
	"github.com/brightfold/portal-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Realtime change feed ---
	hub := realtime.NewHub(0, log)
	feed := redis.NewFeed(rdb, hub, log)
	feed.Start(ctx)
	defer feed.Close()

	// --- Outbound notifications ---
	sender := notify.NewWebhookSender(cfg.NotifyWebhookURL, log)
	dispatcher := notify.NewDispatcher(0, sender, log)
	dispatcher.Start(ctx)

	// --- Object storage ---
	objects := storage.NewFileStore(cfg.AssetDir, cfg.AssetBaseURL)

	e := api.NewRouter(db, rdb, feed, dispatcher, objects, api.Config{
		AdminPassphrase: cfg.AdminPassphrase,
		JWTSecret:       cfg.JWTSecret,
		SessionTTL:      cfg.SessionTTL,
		AssetDir:        cfg.AssetDir,
		AssetBaseURL:    cfg.AssetBaseURL,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal api listening")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
