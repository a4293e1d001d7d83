package ws

import "encoding/json"

// MessageType constants for the live quiz WebSocket protocol.
const (
	// Client -> Server
	TypeSubmitAnswer    = "submit_answer"
	TypeRequestQuestion = "request_question"
	TypeRequestProgress = "request_progress"
	TypePing            = "ping"

	// Server -> Client
	TypeQuestion       = "question"
	TypeAnswerFeedback = "answer_feedback"
	TypeProgressUpdate = "progress_update"
	TypeQuizComplete   = "quiz_complete"
	TypeError          = "error"
	TypePong           = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client messages (incoming)

type SubmitAnswerPayload struct {
	Answer    string  `json:"answer"`
	TimeTaken float64 `json:"time_taken"`
}

// Server messages (outgoing)

type QuestionPayload struct {
	QuestionNumber int               `json:"question_number"`
	TotalQuestions int               `json:"total_questions"`
	Text           string            `json:"text"`
	Options        map[string]string `json:"options"`
	Difficulty     string            `json:"difficulty"`
	Topic          string            `json:"topic,omitempty"`
	Done           bool              `json:"done"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Encode marshals a payload into a Message of the given type. Marshal errors
// are treated as programmer errors and surface as an error-typed message.
func Encode(msgType, requestID string, payload any) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{Type: TypeError, RequestID: requestID}
	}
	return Message{Type: msgType, Payload: data, RequestID: requestID}
}
