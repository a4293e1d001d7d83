package question

// sampleQuestions is the built-in fallback set served when neither the
// curated bank nor the AI generator can supply questions.
var sampleQuestions = []Question{
	{
		Text: "What is the primary function of machine learning?",
		Options: map[string]string{
			"A": "To replace human intelligence completely",
			"B": "To enable computers to learn and improve from experience",
			"C": "To create robots that look like humans",
			"D": "To store large amounts of data",
		},
		CorrectAnswer: "B",
		Explanation:   "Machine learning enables computers to learn and improve their performance on a specific task through experience, without being explicitly programmed for every scenario.",
		Difficulty:    DifficultyMedium,
		Topic:         "Machine Learning Basics",
	},
	{
		Text: "Which of the following is NOT a type of machine learning?",
		Options: map[string]string{
			"A": "Supervised learning",
			"B": "Unsupervised learning",
			"C": "Reinforcement learning",
			"D": "Deterministic learning",
		},
		CorrectAnswer: "D",
		Explanation:   "Deterministic learning is not a recognized type of machine learning. The main types are supervised, unsupervised, and reinforcement learning.",
		Difficulty:    DifficultyEasy,
		Topic:         "Machine Learning Types",
	},
	{
		Text: "What is the purpose of a neural network's activation function?",
		Options: map[string]string{
			"A": "To store the network's weights",
			"B": "To introduce non-linearity into the model",
			"C": "To reduce the size of the input data",
			"D": "To connect different layers physically",
		},
		CorrectAnswer: "B",
		Explanation:   "Activation functions introduce non-linearity into neural networks, allowing them to learn complex patterns and relationships in data that linear models cannot capture.",
		Difficulty:    DifficultyHard,
		Topic:         "Neural Networks",
	},
	{
		Text: "What does 'overfitting' mean in machine learning?",
		Options: map[string]string{
			"A": "The model performs well on training data but poorly on new data",
			"B": "The model is too simple to capture patterns",
			"C": "The model has too few parameters",
			"D": "The model trains too quickly",
		},
		CorrectAnswer: "A",
		Explanation:   "Overfitting occurs when a model learns the training data too well, including noise and outliers, making it perform poorly on new, unseen data.",
		Difficulty:    DifficultyMedium,
		Topic:         "Model Performance",
	},
	{
		Text: "What is the main advantage of using cross-validation?",
		Options: map[string]string{
			"A": "It makes training faster",
			"B": "It reduces the need for data preprocessing",
			"C": "It provides a more reliable estimate of model performance",
			"D": "It eliminates the need for a test set",
		},
		CorrectAnswer: "C",
		Explanation:   "Cross-validation provides a more reliable estimate of how well a model will perform on unseen data by testing it on multiple different subsets of the training data.",
		Difficulty:    DifficultyMedium,
		Topic:         "Model Validation",
	},
}

// Samples returns up to count fallback questions. When a non-medium
// difficulty is requested and matching samples exist, only those are served.
func Samples(count int, difficulty string) []Question {
	pool := sampleQuestions
	if difficulty != DifficultyMedium {
		var filtered []Question
		for _, q := range sampleQuestions {
			if q.Difficulty == difficulty {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	if count > len(pool) {
		count = len(pool)
	}
	return append([]Question(nil), pool[:count]...)
}
