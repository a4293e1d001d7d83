package question

// RecommendDifficulty consumes the full cross-session performance history and
// suggests the difficulty for the NEXT question set. Above the threshold the
// level steps up one notch, below 1-threshold it steps down; otherwise it
// holds. Pure function, no session side effects; distinct from the engine's
// in-session trend signal, which watches only recent answers.
func RecommendDifficulty(history []float64, current string, threshold float64) string {
	if len(history) == 0 {
		return current
	}

	var sum float64
	for _, v := range history {
		sum += v
	}
	avg := sum / float64(len(history))

	switch {
	case avg > threshold && current != DifficultyHard:
		return StepUp(current)
	case avg < 1-threshold && current != DifficultyEasy:
		return StepDown(current)
	default:
		return current
	}
}
