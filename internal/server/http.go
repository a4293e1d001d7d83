package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/quiz"
)

// NewHTTPServer wires base routes (health, metrics) and the quiz API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, quizHandler *quiz.Handler) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ready":true}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	// Quiz session API
	mux.HandleFunc("POST /v1/sessions", quizHandler.CreateSession)
	mux.HandleFunc("POST /v1/sessions/{id}/start", quizHandler.StartQuiz)
	mux.HandleFunc("GET /v1/sessions/{id}/question", quizHandler.GetQuestion)
	mux.HandleFunc("POST /v1/sessions/{id}/answers", quizHandler.SubmitAnswer)
	mux.HandleFunc("GET /v1/sessions/{id}/progress", quizHandler.GetProgress)
	mux.HandleFunc("GET /v1/sessions/{id}/stats", quizHandler.GetStats)
	mux.HandleFunc("GET /v1/sessions/{id}/results", quizHandler.GetResults)
	mux.HandleFunc("GET /v1/sessions/{id}/trend", quizHandler.GetTrend)
	mux.HandleFunc("GET /v1/sessions/{id}/export", quizHandler.ExportSession)
	mux.HandleFunc("POST /v1/sessions/{id}/reset", quizHandler.ResetSession)
	mux.HandleFunc("PUT /v1/sessions/{id}/difficulty", quizHandler.SetDifficulty)
	mux.HandleFunc("DELETE /v1/sessions/{id}", quizHandler.DropSession)

	// Live quiz transport
	mux.HandleFunc("GET /ws/sessions", quizHandler.HandleWebSocket)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
