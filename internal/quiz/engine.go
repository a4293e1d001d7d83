package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/question"
	"github.com/quizforge/quizforge/internal/quiz/scoring"
)

// Sentinel errors returned by engine operations. All are recoverable: the
// session is left untouched and Reset is always a valid escape hatch.
var (
	ErrEmptyQuiz         = errors.New("cannot start a quiz with no questions")
	ErrNoActiveQuestion  = errors.New("no active question")
	ErrQuizInProgress    = errors.New("quiz already in progress")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// In-session trend thresholds for the short-term adjustment signal.
const (
	trendIncreaseAbove = 0.8
	trendDecreaseBelow = 0.4
)

// Engine advances quiz sessions: it starts them, scores answers, finalizes
// completed runs, and derives the advisory difficulty signals. It owns all
// session mutation; callers must serialize access per session (see Store).
type Engine struct {
	scoring *scoring.Engine
	now     func() time.Time
}

// NewEngine builds an engine with the given scoring constants.
func NewEngine(cfg scoring.Config) *Engine {
	return &Engine{
		scoring: scoring.NewEngine(cfg),
		now:     time.Now,
	}
}

// Start begins a new quiz over the given questions. A non-empty question list
// is required; starting over an active session is rejected so an in-flight
// quiz cannot be silently discarded (Reset first to abandon it).
func (e *Engine) Start(s *Session, questions []question.Question, difficulty string) error {
	if len(questions) == 0 {
		return ErrEmptyQuiz
	}
	if s.Active {
		return ErrQuizInProgress
	}
	if difficulty == "" {
		difficulty = question.DifficultyMedium
	}
	if !question.ValidDifficulty(difficulty) {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}

	now := e.now()
	s.Questions = questions
	s.CurrentIndex = 0
	s.Answers = nil
	s.StartTime = &now
	s.EndTime = nil
	s.Difficulty = difficulty
	s.Active = true
	return nil
}

// SubmitAnswer scores one answer against the current question and advances
// the cursor. Comparison is case-insensitive on the option letter; the stored
// record keeps the raw input. Returns ErrNoActiveQuestion without mutating
// anything when there is nothing to answer.
func (e *Engine) SubmitAnswer(s *Session, userAnswer string, timeTakenSeconds float64) (SubmitResult, error) {
	current, ok := s.CurrentQuestion()
	if !ok {
		return SubmitResult{}, ErrNoActiveQuestion
	}

	isCorrect := strings.EqualFold(userAnswer, current.CorrectAnswer)
	score := e.scoring.Score(isCorrect, timeTakenSeconds)

	s.Answers = append(s.Answers, AnswerRecord{
		QuestionIndex: s.CurrentIndex,
		UserAnswer:    userAnswer,
		CorrectAnswer: current.CorrectAnswer,
		IsCorrect:     isCorrect,
		TimeTaken:     timeTakenSeconds,
		Score:         score,
		Timestamp:     e.now(),
	})
	s.CurrentIndex++

	complete := s.CurrentIndex >= len(s.Questions)
	if complete {
		e.finalize(s)
	}

	return SubmitResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: current.CorrectAnswer,
		Explanation:   current.Explanation,
		Score:         score,
		QuizComplete:  complete,
	}, nil
}

// finalize closes the session and folds its mean score into the performance
// history. Called exactly once, when the last question is answered.
func (e *Engine) finalize(s *Session) {
	now := e.now()
	s.EndTime = &now
	s.Active = false

	if scores := s.Scores(); len(scores) > 0 {
		s.PerformanceHistory = append(s.PerformanceHistory, scoring.Mean(scores))
	}
}

// SetDifficulty applies an explicit difficulty change. This is the only way
// session difficulty moves; the advisory signals never self-apply.
func (e *Engine) SetDifficulty(s *Session, difficulty string) error {
	if !question.ValidDifficulty(difficulty) {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
	s.Difficulty = difficulty
	return nil
}

// Progress reports the cursor position. Pure read.
func (s *Session) Progress() Progress {
	total := len(s.Questions)
	pct := 0.0
	if total > 0 {
		pct = float64(s.CurrentIndex) / float64(total) * 100
	}
	return Progress{
		CurrentQuestion:    s.CurrentIndex + 1,
		TotalQuestions:     total,
		ProgressPercentage: pct,
		QuestionsRemaining: total - s.CurrentIndex,
	}
}

// Stats aggregates the session so far. ok is false when nothing has been
// answered yet.
func (s *Session) Stats() (Stats, bool) {
	if len(s.Answers) == 0 {
		return Stats{}, false
	}

	correct := 0
	var totalScore float64
	var timedSum float64
	timedCount := 0
	for _, ans := range s.Answers {
		if ans.IsCorrect {
			correct++
		}
		totalScore += ans.Score
		if ans.TimeTaken > 0 {
			timedSum += ans.TimeTaken
			timedCount++
		}
	}

	total := len(s.Answers)
	avgTime := 0.0
	if timedCount > 0 {
		avgTime = timedSum / float64(timedCount)
	}

	var duration *float64
	if s.StartTime != nil && s.EndTime != nil {
		d := s.EndTime.Sub(*s.StartTime).Seconds()
		duration = &d
	}

	return Stats{
		TotalQuestions:         total,
		CorrectAnswers:         correct,
		AccuracyPercentage:     float64(correct) / float64(total) * 100,
		TotalScore:             totalScore,
		AverageScore:           totalScore / float64(total),
		AverageTimePerQuestion: avgTime,
		SessionDuration:        duration,
		Difficulty:             s.Difficulty,
	}, true
}

// DetailedResults renders one preformatted row per answered question.
// Question text is capped at 50 characters for table display.
func (s *Session) DetailedResults() []ResultRow {
	rows := make([]ResultRow, 0, len(s.Answers))
	for i, ans := range s.Answers {
		q := s.Questions[ans.QuestionIndex]

		text := q.Text
		if r := []rune(text); len(r) > 50 {
			text = string(r[:50]) + "..."
		}

		result := "✗"
		if ans.IsCorrect {
			result = "✓"
		}

		timed := "N/A"
		if ans.TimeTaken > 0 {
			timed = fmt.Sprintf("%.1f", ans.TimeTaken)
		}

		rows = append(rows, ResultRow{
			Question:      fmt.Sprintf("Q%d", i+1),
			QuestionText:  text,
			UserAnswer:    ans.UserAnswer,
			CorrectAnswer: ans.CorrectAnswer,
			Result:        result,
			Score:         fmt.Sprintf("%.2f", ans.Score),
			Time:          timed,
		})
	}
	return rows
}

// PerformanceTrend returns the trailing 3-point moving average of per-question
// scores, or the raw scores while fewer than 3 exist.
func (s *Session) PerformanceTrend() []float64 {
	return scoring.Trend(s.Scores())
}

// ShouldAdjustDifficulty watches the recent in-session trend and recommends a
// one-step difficulty change. ok is false when there is not enough signal or
// the session already sits at the relevant extreme. Distinct from
// scoring.RecommendDifficulty, which looks at long-run cross-session history.
func (s *Session) ShouldAdjustDifficulty() (string, bool) {
	trend := s.PerformanceTrend()
	if len(trend) < 3 {
		return "", false
	}

	recent := scoring.Mean(trend[len(trend)-3:])
	switch {
	case recent > trendIncreaseAbove && s.Difficulty != question.DifficultyHard:
		return AdjustIncrease, true
	case recent < trendDecreaseBelow && s.Difficulty != question.DifficultyEasy:
		return AdjustDecrease, true
	default:
		return "", false
	}
}
