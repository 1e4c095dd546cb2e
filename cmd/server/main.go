package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jslopes/journal-backend/internal/config"
	"github.com/jslopes/journal-backend/internal/database"
	"github.com/jslopes/journal-backend/internal/handlers"
	"github.com/jslopes/journal-backend/internal/routes"
	"github.com/jslopes/journal-backend/internal/services"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().Msg("connecting to PostgreSQL")
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	// Redis only backs the rate limiter; without it the API still serves.
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURI)
		if err != nil {
			log.Warn().Err(err).Msg("redis unreachable, rate limiting disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	uploader := services.NewUploader(cfg.UploadDir, log)
	entry := handlers.NewEntry(db, log)
	upload := handlers.NewUpload(uploader, log)

	r := routes.New(cfg, entry, upload, redisClient, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("journal backend listening")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
