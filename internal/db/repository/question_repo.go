package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizforge/quizforge/internal/question"
)

// QuestionRepository provides curated question-bank access over Postgres.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// FetchPool retrieves up to limit curated questions for a difficulty,
// optionally filtered by topic, in random order.
func (r *QuestionRepository) FetchPool(ctx context.Context, difficulty, topic string, limit int) ([]question.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT text, options, correct_answer, explanation, difficulty, topic
		FROM questions
		WHERE difficulty = $1
		  AND ($2 = '' OR topic ILIKE '%' || $2 || '%')
		ORDER BY random()
		LIMIT $3`,
		difficulty, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("query question pool: %w", err)
	}
	defer rows.Close()

	var out []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Insert stores a validated question (e.g. a verified AI generation) into the bank.
func (r *QuestionRepository) Insert(ctx context.Context, q question.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO questions (text, options, correct_answer, explanation, difficulty, topic)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (text) DO NOTHING`,
		q.Text, options, q.CorrectAnswer, q.Explanation, q.Difficulty, q.Topic)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func scanQuestion(rows pgx.Rows) (question.Question, error) {
	var q question.Question
	var options []byte
	if err := rows.Scan(&q.Text, &options, &q.CorrectAnswer, &q.Explanation, &q.Difficulty, &q.Topic); err != nil {
		return question.Question{}, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return question.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return q, nil
}
