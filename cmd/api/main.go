package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/quizforge/quizforge/internal/app"
	"github.com/quizforge/quizforge/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api exited")
	}
}

func run() error {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("no .env file loaded")
		}
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cfg, err := config.Load(loadCtx)
	cancel()
	if err != nil {
		return err
	}

	ctx := context.Background()
	instance, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return instance.Run(ctx)
}
