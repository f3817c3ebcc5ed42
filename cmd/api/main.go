package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/utilitrack/usage-system/internal/api"
	mongodb "github.com/utilitrack/usage-system/internal/infrastructure/db/mongo"
	redisdb "github.com/utilitrack/usage-system/internal/infrastructure/db/redis"
	"github.com/utilitrack/usage-system/internal/pkg/config"
	"github.com/utilitrack/usage-system/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := mongodb.NewUsageRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("usage indexes failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	e := api.NewRouter(db, rdb, cfg.JWTSecret, cfg.TokenTTL, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting usage tracking API")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
