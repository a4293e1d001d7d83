package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/db/repository"
	"github.com/quizforge/quizforge/internal/logging"
	"github.com/quizforge/quizforge/internal/question"
	"github.com/quizforge/quizforge/internal/question/ai"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/quiz/scoring"
	"github.com/quizforge/quizforge/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	sessionStore *quiz.Store
	bgCancels    []context.CancelFunc
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	questionRepo := repository.NewQuestionRepository(pool)
	questionCache := question.NewCache(redisClient, cfg.Quiz.CacheTTL)

	generator := ai.NewGenerator(ai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: float32(cfg.OpenAI.Temperature),
	}, logger)
	if generator == nil {
		logger.Warn().Msg("OPENAI_API_KEY not configured; serving bank and sample questions only")
	}

	var gen question.Generator
	if generator != nil {
		gen = generator
	}

	questionSvc := question.NewService(questionRepo, questionCache, gen, question.ServiceOptions{
		DefaultCount:         cfg.Quiz.DefaultQuestionCount,
		PerformanceThreshold: cfg.Quiz.PerformanceThreshold,
	}, logger)

	sessionStore := quiz.NewStore(cfg.Quiz.SessionTTL, logger)
	engine := quiz.NewEngine(scoring.DefaultConfig())
	quizHandler := quiz.NewHandler(sessionStore, engine, questionSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, quizHandler)

	return &Application{
		cfg:          cfg,
		logger:       logger,
		pool:         pool,
		redis:        redisClient,
		http:         apiServer,
		sessionStore: sessionStore,
		bgCancels:    make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.sessionStore.RunJanitor(bgCtx); err != nil && err != context.Canceled {
			a.logger.Warn().Err(err).Msg("session janitor stopped")
		}
	}()
}
