package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizforge"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	OpenAI   OpenAI
	Quiz     Quiz
}

// Postgres captures connection info for the question bank.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds question-set cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// OpenAI configures the question generator. An empty key disables AI
// generation; the source then serves bank questions and samples only.
type OpenAI struct {
	APIKey      string  `env:"OPENAI_API_KEY"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	MaxTokens   int     `env:"OPENAI_MAX_TOKENS" envDefault:"1000"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
}

// Quiz groups session and scoring defaults.
type Quiz struct {
	DefaultQuestionCount int           `env:"DEFAULT_QUESTIONS_PER_QUIZ" envDefault:"10"`
	DefaultDifficulty    string        `env:"DEFAULT_DIFFICULTY" envDefault:"medium"`
	PerformanceThreshold float64       `env:"PERFORMANCE_THRESHOLD" envDefault:"0.7"`
	SessionTTL           time.Duration `env:"SESSION_TIMEOUT" envDefault:"30m"`
	CacheTTL             time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"10m"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
