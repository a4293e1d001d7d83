package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/question"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/quiz/scoring"
	"github.com/quizforge/quizforge/pkg/http/ws"
)

type stubSource struct {
	questions []question.Question
}

func (s *stubSource) FetchSet(_ context.Context, req question.SetRequest) ([]question.Question, error) {
	if req.Count > 0 && req.Count < len(s.questions) {
		return s.questions[:req.Count], nil
	}
	return s.questions, nil
}

func (s *stubSource) FetchAdaptive(_ context.Context, _ string, history []float64, currentDifficulty string) ([]question.Question, string, error) {
	next := question.RecommendDifficulty(history, currentDifficulty, 0.7)
	return s.questions, next, nil
}

func twoQuestions() []question.Question {
	q := question.Question{
		Text: "Which gas do plants absorb during photosynthesis?",
		Options: map[string]string{
			"A": "Oxygen", "B": "Carbon dioxide", "C": "Nitrogen", "D": "Hydrogen",
		},
		CorrectAnswer: "B",
		Explanation:   "Plants take in carbon dioxide and release oxygen.",
		Difficulty:    question.DifficultyMedium,
		Topic:         "Biology",
	}
	return []question.Question{q, q}
}

func newTestServer(t *testing.T, source quiz.QuestionSource) *httptest.Server {
	t.Helper()

	store := quiz.NewStore(0, zerolog.Nop())
	engine := quiz.NewEngine(scoring.DefaultConfig())
	handler := quiz.NewHandler(store, engine, source, zerolog.Nop())

	cfg := &config.App{HTTPAddr: "127.0.0.1:0"}
	srv := NewHTTPServer(cfg, zerolog.Nop(), nil, nil, handler)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		SessionID string `json:"session_id"`
	}
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubSource{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQuizFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t, &stubSource{questions: twoQuestions()})
	id := createSession(t, ts)
	base := fmt.Sprintf("%s/v1/sessions/%s", ts.URL, id)

	// start
	resp := postJSON(t, base+"/start", map[string]any{"difficulty": "medium"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var started struct {
		Difficulty     string `json:"difficulty"`
		TotalQuestions int    `json:"total_questions"`
	}
	decodeBody(t, resp, &started)
	assert.Equal(t, "medium", started.Difficulty)
	assert.Equal(t, 2, started.TotalQuestions)

	// current question withholds the answer key
	resp, err := http.Get(base + "/question")
	require.NoError(t, err)
	var view map[string]any
	decodeBody(t, resp, &view)
	assert.Equal(t, "Which gas do plants absorb during photosynthesis?", view["text"])
	assert.NotContains(t, view, "correct_answer")
	assert.NotContains(t, view, "explanation")

	// first answer: lowercase letter, untimed
	resp = postJSON(t, base+"/answers", map[string]any{"answer": "b", "time_taken": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feedback struct {
		IsCorrect     bool    `json:"is_correct"`
		CorrectAnswer string  `json:"correct_answer"`
		Score         float64 `json:"score"`
		QuizComplete  bool    `json:"quiz_complete"`
	}
	decodeBody(t, resp, &feedback)
	assert.True(t, feedback.IsCorrect)
	assert.Equal(t, "B", feedback.CorrectAnswer)
	assert.Equal(t, 1.0, feedback.Score)
	assert.False(t, feedback.QuizComplete)

	// progress midway
	resp, err = http.Get(base + "/progress")
	require.NoError(t, err)
	var progress struct {
		ProgressPercentage float64 `json:"progress_percentage"`
		QuestionsRemaining int     `json:"questions_remaining"`
	}
	decodeBody(t, resp, &progress)
	assert.Equal(t, 50.0, progress.ProgressPercentage)
	assert.Equal(t, 1, progress.QuestionsRemaining)

	// final answer wrong -> complete
	resp = postJSON(t, base+"/answers", map[string]any{"answer": "A"})
	decodeBody(t, resp, &feedback)
	assert.False(t, feedback.IsCorrect)
	assert.True(t, feedback.QuizComplete)

	// stats
	resp, err = http.Get(base + "/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalQuestions     int      `json:"total_questions"`
		CorrectAnswers     int      `json:"correct_answers"`
		AccuracyPercentage float64  `json:"accuracy_percentage"`
		SessionDuration    *float64 `json:"session_duration"`
	}
	decodeBody(t, resp, &stats)
	assert.Equal(t, 2, stats.TotalQuestions)
	assert.Equal(t, 1, stats.CorrectAnswers)
	assert.Equal(t, 50.0, stats.AccuracyPercentage)
	assert.NotNil(t, stats.SessionDuration)

	// results table
	resp, err = http.Get(base + "/results")
	require.NoError(t, err)
	var results struct {
		Results []struct {
			Question string `json:"question"`
			Result   string `json:"result"`
		} `json:"results"`
	}
	decodeBody(t, resp, &results)
	require.Len(t, results.Results, 2)
	assert.Equal(t, "Q1", results.Results[0].Question)
	assert.Equal(t, "✓", results.Results[0].Result)
	assert.Equal(t, "✗", results.Results[1].Result)

	// export round-trips
	resp, err = http.Get(base + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	doc, err := quiz.ParseExport(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, doc.Answers, 2)
	assert.Len(t, doc.Questions, 2)
	require.NotNil(t, doc.Statistics)
	assert.Equal(t, 2, doc.Statistics.TotalQuestions)

	// reset wipes the run
	resp = postJSON(t, base+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(base + "/question")
	require.NoError(t, err)
	decodeBody(t, resp, &view)
	assert.Equal(t, true, view["done"])
}

func TestSubmitWithoutActiveQuiz(t *testing.T) {
	ts := newTestServer(t, &stubSource{questions: twoQuestions()})
	id := createSession(t, ts)

	resp := postJSON(t, fmt.Sprintf("%s/v1/sessions/%s/answers", ts.URL, id), map[string]any{"answer": "A"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var apiErr struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &apiErr)
	assert.Equal(t, "no_active_question", apiErr.Error)
}

func TestStartWithEmptySourceRejected(t *testing.T) {
	ts := newTestServer(t, &stubSource{})
	id := createSession(t, ts)

	resp := postJSON(t, fmt.Sprintf("%s/v1/sessions/%s/start", ts.URL, id), map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var apiErr struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &apiErr)
	assert.Equal(t, "empty_quiz", apiErr.Error)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t, &stubSource{questions: twoQuestions()})

	resp, err := http.Get(ts.URL + "/v1/sessions/6a1f0a76-0b9f-49f4-9c1e-95a0c2f7d001/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMalformedSessionID(t *testing.T) {
	ts := newTestServer(t, &stubSource{})

	resp, err := http.Get(ts.URL + "/v1/sessions/not-a-uuid/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetDifficulty(t *testing.T) {
	ts := newTestServer(t, &stubSource{questions: twoQuestions()})
	id := createSession(t, ts)
	url := fmt.Sprintf("%s/v1/sessions/%s/difficulty", ts.URL, id)

	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(`{"difficulty":"hard"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPut, url, strings.NewReader(`{"difficulty":"legendary"}`))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDropSession(t *testing.T) {
	ts := newTestServer(t, &stubSource{questions: twoQuestions()})
	id := createSession(t, ts)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s", ts.URL, id), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(fmt.Sprintf("%s/v1/sessions/%s/progress", ts.URL, id))
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestQuizFlowOverWebSocket(t *testing.T) {
	ts := newTestServer(t, &stubSource{questions: twoQuestions()})
	id := createSession(t, ts)

	// start over HTTP, play over the socket
	resp := postJSON(t, fmt.Sprintf("%s/v1/sessions/%s/start", ts.URL, id), map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions?session_id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// current question
	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeRequestQuestion, RequestID: "r1"}))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.TypeQuestion, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)

	var qp ws.QuestionPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &qp))
	assert.Equal(t, 1, qp.QuestionNumber)
	assert.False(t, qp.Done)

	// answer both questions
	submit := func(answer string) ws.Message {
		payload, _ := json.Marshal(ws.SubmitAnswerPayload{Answer: answer})
		require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeSubmitAnswer, Payload: payload}))
		var reply ws.Message
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	reply := submit("B")
	assert.Equal(t, ws.TypeAnswerFeedback, reply.Type)

	reply = submit("A")
	assert.Equal(t, ws.TypeAnswerFeedback, reply.Type)
	var feedback quiz.SubmitResult
	require.NoError(t, json.Unmarshal(reply.Payload, &feedback))
	assert.True(t, feedback.QuizComplete)

	// completion pushes the final stats frame
	var done ws.Message
	require.NoError(t, conn.ReadJSON(&done))
	assert.Equal(t, ws.TypeQuizComplete, done.Type)
	var stats quiz.Stats
	require.NoError(t, json.Unmarshal(done.Payload, &stats))
	assert.Equal(t, 2, stats.TotalQuestions)

	// further submissions surface the protocol error
	reply = submit("B")
	assert.Equal(t, ws.TypeError, reply.Type)
}
