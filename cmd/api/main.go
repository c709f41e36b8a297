package main

import (
	"context"
	"time"

	"github.com/edusphere/elearning-api/internal/api"
	mongodb "github.com/edusphere/elearning-api/internal/infrastructure/db/mongo"
	redisdb "github.com/edusphere/elearning-api/internal/infrastructure/db/redis"
	"github.com/edusphere/elearning-api/internal/infrastructure/payment"
	"github.com/edusphere/elearning-api/internal/pkg/config"
	"github.com/edusphere/elearning-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// The unique indexes on users.email and enrollments.(user_id, course_id)
	// are the authoritative duplicate guards; fail startup without them.
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := mongodb.NewEnrollmentRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("enrollment index creation failed")
	}

	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	e := api.NewRouter(cfg, db, rdb, gateway, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
