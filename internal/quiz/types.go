package quiz

import (
	"time"

	"github.com/quizforge/quizforge/internal/question"
)

// Difficulty adjustment signals emitted to callers. Advisory only; the engine
// never applies them itself.
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

// AnswerRecord stores one submitted answer with timing and score. Immutable
// once appended.
type AnswerRecord struct {
	QuestionIndex int       `json:"question_index"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	IsCorrect     bool      `json:"is_correct"`
	TimeTaken     float64   `json:"time_taken"`
	Score         float64   `json:"score"`
	Timestamp     time.Time `json:"timestamp"`
}

// Session is the mutable aggregate for a single quiz run. The engine is its
// exclusive owner; nothing else writes to it. PerformanceHistory survives
// resets so cross-session difficulty recommendations keep their signal.
type Session struct {
	Questions          []question.Question `json:"questions"`
	CurrentIndex       int                 `json:"current_index"`
	Answers            []AnswerRecord      `json:"answers"`
	Difficulty         string              `json:"difficulty"`
	StartTime          *time.Time          `json:"start_time"`
	EndTime            *time.Time          `json:"end_time"`
	PerformanceHistory []float64           `json:"performance_history"`
	Active             bool                `json:"active"`
}

// NewSession returns a session wiped to defaults.
func NewSession() *Session {
	return &Session{
		Difficulty: question.DifficultyMedium,
	}
}

// Reset wipes all quiz fields back to defaults. Performance history is kept;
// call like a "play again" rather than a "forget me".
func (s *Session) Reset() {
	s.Questions = nil
	s.CurrentIndex = 0
	s.Answers = nil
	s.Difficulty = question.DifficultyMedium
	s.StartTime = nil
	s.EndTime = nil
	s.Active = false
}

// CurrentQuestion returns the question at the cursor. ok is false when the
// session is inactive or the quiz already ran off the end; that is a normal
// "no question" state, not an error.
func (s *Session) CurrentQuestion() (question.Question, bool) {
	if !s.Active || s.CurrentIndex >= len(s.Questions) {
		return question.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Scores returns the per-answer score sequence in submission order.
func (s *Session) Scores() []float64 {
	scores := make([]float64, 0, len(s.Answers))
	for _, ans := range s.Answers {
		scores = append(scores, ans.Score)
	}
	return scores
}

// SubmitResult is the feedback returned for one answer.
type SubmitResult struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
	Score         float64 `json:"score"`
	QuizComplete  bool    `json:"quiz_complete"`
}

// Progress describes how far through the question list the session is.
type Progress struct {
	CurrentQuestion    int     `json:"current_question"`
	TotalQuestions     int     `json:"total_questions"`
	ProgressPercentage float64 `json:"progress_percentage"`
	QuestionsRemaining int     `json:"questions_remaining"`
}

// Stats aggregates session performance.
type Stats struct {
	TotalQuestions         int      `json:"total_questions"`
	CorrectAnswers         int      `json:"correct_answers"`
	AccuracyPercentage     float64  `json:"accuracy_percentage"`
	TotalScore             float64  `json:"total_score"`
	AverageScore           float64  `json:"average_score"`
	AverageTimePerQuestion float64  `json:"average_time_per_question"`
	SessionDuration        *float64 `json:"session_duration"`
	Difficulty             string   `json:"difficulty"`
}

// ResultRow is one line of the detailed results table, preformatted for display.
type ResultRow struct {
	Question      string `json:"question"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Result        string `json:"result"`
	Score         string `json:"score"`
	Time          string `json:"time"`
}
