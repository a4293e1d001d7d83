package question

import "fmt"

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// OptionKeys is the fixed label set every multiple-choice question must cover.
var OptionKeys = []string{"A", "B", "C", "D"}

var difficultyRank = map[string]int{
	DifficultyEasy:   0,
	DifficultyMedium: 1,
	DifficultyHard:   2,
}

// Question is an immutable multiple-choice question delivered into a quiz session.
type Question struct {
	Text          string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Difficulty    string            `json:"difficulty"`
	Topic         string            `json:"topic"`
}

// Validate checks the structural invariant: all four option keys present and the
// correct answer among them. Questions failing this must never reach a session.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != len(OptionKeys) {
		return fmt.Errorf("expected %d options, got %d", len(OptionKeys), len(q.Options))
	}
	for _, key := range OptionKeys {
		if _, ok := q.Options[key]; !ok {
			return fmt.Errorf("missing option %q", key)
		}
	}
	if _, ok := q.Options[q.CorrectAnswer]; !ok {
		return fmt.Errorf("correct answer %q is not an option key", q.CorrectAnswer)
	}
	return nil
}

// ValidDifficulty reports whether d is one of the known levels.
func ValidDifficulty(d string) bool {
	_, ok := difficultyRank[d]
	return ok
}

// StepUp returns the next harder level, capped at hard.
func StepUp(d string) string {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// StepDown returns the next easier level, capped at easy.
func StepDown(d string) string {
	switch d {
	case DifficultyHard:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
