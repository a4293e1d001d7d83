package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/question"
	httperrors "github.com/quizforge/quizforge/pkg/http/errors"
)

// QuestionSource supplies validated question sets (implemented by question.Service).
type QuestionSource interface {
	FetchSet(ctx context.Context, req question.SetRequest) ([]question.Question, error)
	FetchAdaptive(ctx context.Context, content string, history []float64, currentDifficulty string) ([]question.Question, string, error)
}

// Handler exposes the quiz engine over HTTP. Thin transport: all semantics
// live in the engine and session.
type Handler struct {
	store  *Store
	engine *Engine
	source QuestionSource
	logger zerolog.Logger
}

func NewHandler(store *Store, engine *Engine, source QuestionSource, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		engine: engine,
		source: source,
		logger: logger.With().Str("component", "quiz_http").Logger(),
	}
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// CreateSession registers a fresh session and returns its key.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.store.Create()
	respondJSON(w, http.StatusCreated, createSessionResponse{SessionID: id.String()})
}

type startRequest struct {
	Content       string `json:"content"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"`
	Topic         string `json:"topic"`
	Adaptive      bool   `json:"adaptive"`
}

type startResponse struct {
	Difficulty     string `json:"difficulty"`
	TotalQuestions int    `json:"total_questions"`
}

// StartQuiz fetches a question set from the source and starts the quiz.
// With adaptive=true the difficulty is picked from the session's
// performance history instead of the request value.
func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed JSON body")
		return
	}
	if req.Difficulty != "" && !question.ValidDifficulty(req.Difficulty) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownDifficulty, "difficulty must be easy, medium, or hard")
		return
	}

	err := h.store.With(id, func(s *Session) error {
		if s.Active {
			return ErrQuizInProgress
		}

		var questions []question.Question
		difficulty := req.Difficulty
		var err error
		if req.Adaptive {
			questions, difficulty, err = h.source.FetchAdaptive(r.Context(), req.Content, s.PerformanceHistory, s.Difficulty)
		} else {
			questions, err = h.source.FetchSet(r.Context(), question.SetRequest{
				Content:    req.Content,
				Count:      req.QuestionCount,
				Difficulty: req.Difficulty,
				Topic:      req.Topic,
			})
		}
		if err != nil {
			return err
		}

		if err := h.engine.Start(s, questions, difficulty); err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, startResponse{
			Difficulty:     s.Difficulty,
			TotalQuestions: len(s.Questions),
		})
		return nil
	})
	h.respondOpError(w, err)
}

type questionView struct {
	QuestionNumber int               `json:"question_number"`
	TotalQuestions int               `json:"total_questions"`
	Text           string            `json:"text"`
	Options        map[string]string `json:"options"`
	Difficulty     string            `json:"difficulty"`
	Topic          string            `json:"topic,omitempty"`
	Done           bool              `json:"done"`
}

// GetQuestion returns the current question with the answer key withheld.
// A finished or unstarted quiz yields done=true rather than an error.
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		current, active := s.CurrentQuestion()
		if !active {
			respondJSON(w, http.StatusOK, questionView{Done: true})
			return nil
		}
		respondJSON(w, http.StatusOK, questionView{
			QuestionNumber: s.CurrentIndex + 1,
			TotalQuestions: len(s.Questions),
			Text:           current.Text,
			Options:        current.Options,
			Difficulty:     current.Difficulty,
			Topic:          current.Topic,
		})
		return nil
	})
	h.respondOpError(w, err)
}

type submitRequest struct {
	Answer    string  `json:"answer"`
	TimeTaken float64 `json:"time_taken"`
}

// SubmitAnswer scores one answer and returns the feedback.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed JSON body")
		return
	}

	err := h.store.With(id, func(s *Session) error {
		result, err := h.engine.SubmitAnswer(s, req.Answer, req.TimeTaken)
		if err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, result)
		return nil
	})
	h.respondOpError(w, err)
}

// GetProgress reports the cursor position.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		respondJSON(w, http.StatusOK, s.Progress())
		return nil
	})
	h.respondOpError(w, err)
}

// GetStats returns aggregated session statistics, or 404 no_data before any
// answer has been recorded.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		stats, hasData := s.Stats()
		if !hasData {
			httperrors.RespondNotFound(w, httperrors.ErrCodeNoData, "no answers recorded yet")
			return nil
		}
		respondJSON(w, http.StatusOK, stats)
		return nil
	})
	h.respondOpError(w, err)
}

// GetResults returns the per-question detailed results table.
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		respondJSON(w, http.StatusOK, map[string]any{"results": s.DetailedResults()})
		return nil
	})
	h.respondOpError(w, err)
}

type trendResponse struct {
	Trend          []float64 `json:"trend"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// GetTrend returns the in-session score trend plus the advisory difficulty
// adjustment, when the trend supports one.
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		resp := trendResponse{Trend: s.PerformanceTrend()}
		if adjust, ok := s.ShouldAdjustDifficulty(); ok {
			resp.Recommendation = adjust
		}
		respondJSON(w, http.StatusOK, resp)
		return nil
	})
	h.respondOpError(w, err)
}

// ExportSession streams the lossless session export document.
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		data, err := Export(s)
		if err != nil {
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExportFailed, err.Error())
			return nil
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return nil
	})
	h.respondOpError(w, err)
}

// ResetSession wipes the session back to defaults, keeping its performance history.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	err := h.store.With(id, func(s *Session) error {
		s.Reset()
		respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
		return nil
	})
	h.respondOpError(w, err)
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

// SetDifficulty applies an explicit difficulty change. The advisory signals
// from /trend are never applied automatically; this is the caller acting on them.
func (h *Handler) SetDifficulty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed JSON body")
		return
	}

	err := h.store.With(id, func(s *Session) error {
		if err := h.engine.SetDifficulty(s, req.Difficulty); err != nil {
			return err
		}
		respondJSON(w, http.StatusOK, map[string]string{"difficulty": s.Difficulty})
		return nil
	})
	h.respondOpError(w, err)
}

// DropSession removes the session entirely, history included.
func (h *Handler) DropSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	h.store.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "session id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// respondOpError maps engine/store errors onto the HTTP error taxonomy.
// A nil error means the operation already wrote its response.
func (h *Handler) respondOpError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "unknown session")
	case errors.Is(err, ErrNoActiveQuestion):
		httperrors.RespondConflict(w, httperrors.ErrCodeNoActiveQuestion, "no active question to answer")
	case errors.Is(err, ErrEmptyQuiz):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeEmptyQuiz, "cannot start a quiz with no questions")
	case errors.Is(err, ErrQuizInProgress):
		httperrors.RespondConflict(w, httperrors.ErrCodeQuizInProgress, "quiz already in progress; reset first")
	case errors.Is(err, ErrUnknownDifficulty):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownDifficulty, err.Error())
	default:
		h.logger.Error().Err(err).Msg("quiz operation failed")
		httperrors.RespondInternalError(w, "quiz operation failed")
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
