package scoring

// Config holds configurable scoring constants (defaults match requirements).
type Config struct {
	BaseScore    float64 // default: 1.0, awarded for a correct answer
	MaxTimeBonus float64 // default: 0.2, earned by answering instantly
	BonusWindow  float64 // default: 30 seconds; bonus decays linearly to 0 here
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BaseScore:    1.0,
		MaxTimeBonus: 0.2,
		BonusWindow:  30,
	}
}

// Engine computes per-answer scores with configurable constants.
type Engine struct {
	config Config
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config Config) *Engine {
	if config.BaseScore == 0 {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// Score computes points for a single answer.
// Formula: base + time_bonus
// - base: awarded only if correct
// - time_bonus: max when answered instantly, decays linearly to 0 at the
//   bonus window; applied only to timed (> 0s) correct answers. A wrong
//   answer earns nothing no matter how fast it came in.
func (e *Engine) Score(isCorrect bool, timeTakenSeconds float64) float64 {
	if !isCorrect {
		return 0
	}

	score := e.config.BaseScore

	if timeTakenSeconds > 0 {
		bonus := (e.config.BonusWindow - timeTakenSeconds) / e.config.BonusWindow * e.config.MaxTimeBonus
		if bonus > 0 {
			score += bonus
		}
	}

	return score
}

// MaxScore returns the ceiling a single answer can reach.
func (e *Engine) MaxScore() float64 {
	return e.config.BaseScore + e.config.MaxTimeBonus
}

// Trend returns the 3-point trailing moving average over scores. With fewer
// than 3 scores the raw sequence is returned unchanged; otherwise the result
// has len(scores)-2 points.
func Trend(scores []float64) []float64 {
	if len(scores) < 3 {
		return append([]float64(nil), scores...)
	}

	trend := make([]float64, 0, len(scores)-2)
	for i := 2; i < len(scores); i++ {
		trend = append(trend, (scores[i-2]+scores[i-1]+scores[i])/3)
	}
	return trend
}

// Mean averages the values; 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
