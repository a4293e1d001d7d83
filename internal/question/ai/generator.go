package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/quizforge/quizforge/internal/question"
)

// Config holds OpenAI connection and sampling parameters.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Generator produces quiz questions from source content via the OpenAI chat API.
type Generator struct {
	client *openai.Client
	config Config
	logger zerolog.Logger
}

// NewGenerator builds a generator. Returns nil when no API key is configured;
// the question service treats a nil generator as "unavailable" and falls back
// to its sample set.
func NewGenerator(cfg Config, logger zerolog.Logger) *Generator {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	return &Generator{
		client: openai.NewClient(cfg.APIKey),
		config: cfg,
		logger: logger.With().Str("component", "ai_generator").Logger(),
	}
}

// Generate requests a question set and parses the model's JSON reply. Every
// returned question has passed structural validation.
func (g *Generator) Generate(ctx context.Context, req question.SetRequest) ([]question.Question, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert quiz generator. Create engaging and educational quiz questions.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	questions, err := parseQuestions(resp.Choices[0].Message.Content, req.Difficulty)
	if err != nil {
		return nil, err
	}

	g.logger.Info().Int("count", len(questions)).Str("difficulty", req.Difficulty).Msg("generated question set")
	return questions, nil
}

var difficultyInstructions = map[string]string{
	question.DifficultyEasy:   "Create simple, straightforward questions that test basic understanding.",
	question.DifficultyMedium: "Create moderately challenging questions that require some analysis.",
	question.DifficultyHard:   "Create complex questions that require deep understanding and critical thinking.",
}

// maxContentChars bounds the content excerpt embedded in the prompt.
const maxContentChars = 3000

func buildPrompt(req question.SetRequest) string {
	content := req.Content
	if r := []rune(content); len(r) > maxContentChars {
		content = string(r[:maxContentChars])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following content, generate %d multiple-choice quiz questions.\n\n", req.Count)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Difficulty level: %s - %s\n", req.Difficulty, difficultyInstructions[req.Difficulty])
	b.WriteString("- Each question should have 4 options (A, B, C, D)\n")
	b.WriteString("- Include the correct answer\n")
	b.WriteString("- Provide a brief explanation for the correct answer\n")
	b.WriteString("- Questions should be relevant to the main topics in the content\n")
	if req.Topic != "" {
		fmt.Fprintf(&b, "- Focus on the topic: %s\n", req.Topic)
	}
	b.WriteString(`
IMPORTANT: Respond ONLY with valid JSON. No additional text before or after the JSON.

Format your response as a JSON array with this exact structure:
[
  {
    "question": "Question text here?",
    "options": {
      "A": "Option A text",
      "B": "Option B text",
      "C": "Option C text",
      "D": "Option D text"
    },
    "correct_answer": "A",
    "explanation": "Brief explanation of why this is correct",
    "difficulty": "` + req.Difficulty + `",
    "topic": "Main topic of this question"
  }
]

Return ONLY the JSON array. Do not include any explanatory text, markdown formatting, or code blocks.
`)
	return b.String()
}

// parseQuestions extracts the JSON array from a model reply that may be
// wrapped in prose or markdown fences, then validates each question. Invalid
// entries are dropped rather than failing the whole batch.
func parseQuestions(reply, difficulty string) ([]question.Question, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in completion")
	}

	var raw []question.Question
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode question array: %w", err)
	}

	valid := make([]question.Question, 0, len(raw))
	for _, q := range raw {
		if q.Difficulty == "" {
			q.Difficulty = difficulty
		}
		if err := q.Validate(); err != nil {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid questions in completion")
	}
	return valid, nil
}
