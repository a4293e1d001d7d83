package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() Question {
	return Question{
		Text: "Which planet is known as the Red Planet?",
		Options: map[string]string{
			"A": "Venus", "B": "Mars", "C": "Jupiter", "D": "Saturn",
		},
		CorrectAnswer: "B",
		Explanation:   "Iron oxide on its surface gives Mars its reddish appearance.",
		Difficulty:    DifficultyEasy,
		Topic:         "Astronomy",
	}
}

func TestValidateAcceptsWellFormedQuestion(t *testing.T) {
	assert.NoError(t, validQuestion().Validate())
}

func TestValidateRejectsEmptyText(t *testing.T) {
	q := validQuestion()
	q.Text = ""
	assert.Error(t, q.Validate())
}

func TestValidateRejectsMissingOption(t *testing.T) {
	q := validQuestion()
	delete(q.Options, "C")
	assert.Error(t, q.Validate())

	q = validQuestion()
	delete(q.Options, "C")
	q.Options["E"] = "Neptune"
	assert.Error(t, q.Validate(), "an off-label key does not substitute for C")
}

func TestValidateRejectsCorrectAnswerOutsideOptions(t *testing.T) {
	q := validQuestion()
	q.CorrectAnswer = "E"
	assert.Error(t, q.Validate())
}

func TestDifficultySteps(t *testing.T) {
	assert.Equal(t, DifficultyMedium, StepUp(DifficultyEasy))
	assert.Equal(t, DifficultyHard, StepUp(DifficultyMedium))
	assert.Equal(t, DifficultyHard, StepUp(DifficultyHard))

	assert.Equal(t, DifficultyMedium, StepDown(DifficultyHard))
	assert.Equal(t, DifficultyEasy, StepDown(DifficultyMedium))
	assert.Equal(t, DifficultyEasy, StepDown(DifficultyEasy))
}

func TestValidDifficulty(t *testing.T) {
	assert.True(t, ValidDifficulty(DifficultyEasy))
	assert.True(t, ValidDifficulty(DifficultyMedium))
	assert.True(t, ValidDifficulty(DifficultyHard))
	assert.False(t, ValidDifficulty("extreme"))
	assert.False(t, ValidDifficulty(""))
}

func TestRecommendDifficulty(t *testing.T) {
	const threshold = 0.7

	// no history -> hold
	assert.Equal(t, DifficultyMedium, RecommendDifficulty(nil, DifficultyMedium, threshold))

	// strong history steps up one level
	strong := []float64{0.9, 0.8, 0.95}
	assert.Equal(t, DifficultyHard, RecommendDifficulty(strong, DifficultyMedium, threshold))
	assert.Equal(t, DifficultyMedium, RecommendDifficulty(strong, DifficultyEasy, threshold))
	assert.Equal(t, DifficultyHard, RecommendDifficulty(strong, DifficultyHard, threshold))

	// weak history steps down one level
	weak := []float64{0.1, 0.2, 0.15}
	assert.Equal(t, DifficultyEasy, RecommendDifficulty(weak, DifficultyMedium, threshold))
	assert.Equal(t, DifficultyMedium, RecommendDifficulty(weak, DifficultyHard, threshold))
	assert.Equal(t, DifficultyEasy, RecommendDifficulty(weak, DifficultyEasy, threshold))

	// mid-band history holds
	steady := []float64{0.5, 0.6, 0.55}
	assert.Equal(t, DifficultyMedium, RecommendDifficulty(steady, DifficultyMedium, threshold))
}

func TestSamples(t *testing.T) {
	all := Samples(10, DifficultyMedium)
	assert.NotEmpty(t, all)
	assert.LessOrEqual(t, len(all), 10)
	for _, q := range all {
		assert.NoError(t, q.Validate())
	}

	easy := Samples(3, DifficultyEasy)
	for _, q := range easy {
		assert.Equal(t, DifficultyEasy, q.Difficulty)
	}

	two := Samples(2, DifficultyMedium)
	assert.Len(t, two, 2)
}
