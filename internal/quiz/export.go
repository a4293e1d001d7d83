package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizforge/quizforge/internal/question"
)

// SessionInfo carries session metadata in the export document. Absent
// timestamps serialize as null.
type SessionInfo struct {
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	Difficulty string     `json:"difficulty"`
}

// ExportedSession is the stable export document shape. Statistics is null
// when nothing was answered.
type ExportedSession struct {
	SessionInfo SessionInfo         `json:"session_info"`
	Questions   []question.Question `json:"questions"`
	Answers     []AnswerRecord      `json:"answers"`
	Statistics  *Stats              `json:"statistics"`
}

// Export serializes the full session (metadata, questions, answer records,
// stats snapshot) as indented JSON. Lossless: ParseExport reproduces every
// answer and question field.
func Export(s *Session) ([]byte, error) {
	doc := ExportedSession{
		SessionInfo: SessionInfo{
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			Difficulty: s.Difficulty,
		},
		Questions: s.Questions,
		Answers:   s.Answers,
	}
	if stats, ok := s.Stats(); ok {
		doc.Statistics = &stats
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session export: %w", err)
	}
	return data, nil
}

// ParseExport reads an export document back.
func ParseExport(data []byte) (*ExportedSession, error) {
	var doc ExportedSession
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal session export: %w", err)
	}
	return &doc, nil
}
