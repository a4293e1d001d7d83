package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// SetRequest describes one question-set fetch.
type SetRequest struct {
	Content    string
	Count      int
	Difficulty string
	Topic      string
}

// SetCache defines cache behavior (implemented by the Redis-backed Cache).
type SetCache interface {
	Get(ctx context.Context, req SetRequest) ([]Question, error)
	Set(ctx context.Context, req SetRequest, questions []Question) error
}

// Generator produces questions from source content (implemented by ai.Generator).
type Generator interface {
	Generate(ctx context.Context, req SetRequest) ([]Question, error)
}

// Bank is the curated question store (implemented by repository.QuestionRepository).
type Bank interface {
	FetchPool(ctx context.Context, difficulty, topic string, limit int) ([]Question, error)
	Insert(ctx context.Context, q Question) error
}

// ServiceOptions tunes source behavior.
type ServiceOptions struct {
	DefaultCount         int     // questions per set when the caller does not say
	PerformanceThreshold float64 // drives adaptive difficulty selection
}

// Service assembles question sets for the quiz engine, respecting the
// priority: cache -> curated bank -> AI generation -> built-in samples.
// Every question leaving the service has passed structural validation, so
// the engine can trust its input.
type Service struct {
	bank      Bank
	cache     SetCache
	generator Generator
	opts      ServiceOptions
	logger    zerolog.Logger
}

func NewService(bank Bank, cache SetCache, generator Generator, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 10
	}
	if opts.PerformanceThreshold <= 0 {
		opts.PerformanceThreshold = 0.7
	}
	return &Service{
		bank:      bank,
		cache:     cache,
		generator: generator,
		opts:      opts,
		logger:    logger.With().Str("component", "question_source").Logger(),
	}
}

// FetchSet returns a validated question set for the request.
func (s *Service) FetchSet(ctx context.Context, req SetRequest) ([]Question, error) {
	if req.Count <= 0 {
		req.Count = s.opts.DefaultCount
	}
	if req.Difficulty == "" {
		req.Difficulty = DifficultyMedium
	}
	if !ValidDifficulty(req.Difficulty) {
		return nil, fmt.Errorf("unknown difficulty %q", req.Difficulty)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var set []Question

	if s.bank != nil {
		curated, err := s.bank.FetchPool(ctx, req.Difficulty, req.Topic, req.Count)
		if err != nil {
			s.logger.Warn().Err(err).Msg("question bank unavailable")
		} else {
			set = appendValid(set, curated, req.Count)
		}
	}

	if len(set) < req.Count && s.generator != nil {
		remaining := req
		remaining.Count = req.Count - len(set)
		generated, err := s.generator.Generate(ctx, remaining)
		if err != nil {
			s.logger.Warn().Err(err).Msg("ai generation failed, falling back")
		} else {
			set = appendValid(set, generated, req.Count)
			s.persist(ctx, generated)
		}
	}

	if len(set) < req.Count {
		set = appendValid(set, Samples(req.Count-len(set), req.Difficulty), req.Count)
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no questions available for difficulty %q", req.Difficulty)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, req, set); err != nil {
			s.logger.Warn().Err(err).Msg("question set cache write failed")
		}
	}

	return set, nil
}

// FetchAdaptive picks the next set's difficulty from the cross-session
// performance history before fetching. With no history it defaults to the
// current difficulty unchanged.
func (s *Service) FetchAdaptive(ctx context.Context, content string, history []float64, currentDifficulty string) ([]Question, string, error) {
	if currentDifficulty == "" {
		currentDifficulty = DifficultyMedium
	}
	next := RecommendDifficulty(history, currentDifficulty, s.opts.PerformanceThreshold)

	set, err := s.FetchSet(ctx, SetRequest{
		Content:    content,
		Count:      s.opts.DefaultCount,
		Difficulty: next,
	})
	return set, next, err
}

// appendValid keeps only structurally valid questions, up to the limit.
// Anything malformed is rejected here so it can never enter a session.
func appendValid(dst, src []Question, limit int) []Question {
	for _, q := range src {
		if len(dst) >= limit {
			break
		}
		if err := q.Validate(); err != nil {
			continue
		}
		dst = append(dst, q)
	}
	return dst
}

// persist best-effort stores fresh generations into the bank for reuse.
func (s *Service) persist(ctx context.Context, questions []Question) {
	if s.bank == nil {
		return
	}
	for _, q := range questions {
		if err := s.bank.Insert(ctx, q); err != nil {
			s.logger.Warn().Err(err).Msg("question bank insert failed")
			return
		}
	}
}
