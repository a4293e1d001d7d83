package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	httperrors "github.com/quizforge/quizforge/pkg/http/errors"
	"github.com/quizforge/quizforge/pkg/http/ws"
)

// Upgrader for live quiz connections.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the frontend host is fixed
		return true
	},
}

// HandleWebSocket upgrades to a live quiz connection. The client drives the
// same engine operations as the HTTP API over one socket: request the current
// question, submit answers, poll progress. One connection serves one session;
// the store's per-session lock keeps socket and HTTP callers from interleaving.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "session_id query parameter must be a UUID")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := h.logger.With().Str("session_id", id.String()).Logger()
	logger.Debug().Msg("live quiz connection opened")

	for {
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		reply := h.dispatch(id, msg)
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Msg("websocket write error")
			return
		}

		// Completion pushes the final stats as a second frame.
		if reply.Type == ws.TypeAnswerFeedback {
			if done := h.completionFrame(id, msg.RequestID); done != nil {
				if err := conn.WriteJSON(*done); err != nil {
					return
				}
			}
		}
	}
}

// dispatch routes one client message to the engine and shapes the reply.
func (h *Handler) dispatch(id uuid.UUID, msg ws.Message) ws.Message {
	switch msg.Type {
	case ws.TypePing:
		return ws.Message{Type: ws.TypePong, RequestID: msg.RequestID}

	case ws.TypeRequestQuestion:
		var view ws.QuestionPayload
		err := h.store.With(id, func(s *Session) error {
			current, active := s.CurrentQuestion()
			if !active {
				view = ws.QuestionPayload{Done: true}
				return nil
			}
			view = ws.QuestionPayload{
				QuestionNumber: s.CurrentIndex + 1,
				TotalQuestions: len(s.Questions),
				Text:           current.Text,
				Options:        current.Options,
				Difficulty:     current.Difficulty,
				Topic:          current.Topic,
			}
			return nil
		})
		if err != nil {
			return wsError(msg.RequestID, err)
		}
		return ws.Encode(ws.TypeQuestion, msg.RequestID, view)

	case ws.TypeSubmitAnswer:
		var payload ws.SubmitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return ws.Encode(ws.TypeError, msg.RequestID, ws.ErrorPayload{
				Code:    httperrors.ErrCodeInvalidPayload,
				Message: "malformed submit_answer payload",
			})
		}
		var result SubmitResult
		err := h.store.With(id, func(s *Session) error {
			var err error
			result, err = h.engine.SubmitAnswer(s, payload.Answer, payload.TimeTaken)
			return err
		})
		if err != nil {
			return wsError(msg.RequestID, err)
		}
		return ws.Encode(ws.TypeAnswerFeedback, msg.RequestID, result)

	case ws.TypeRequestProgress:
		var progress Progress
		err := h.store.With(id, func(s *Session) error {
			progress = s.Progress()
			return nil
		})
		if err != nil {
			return wsError(msg.RequestID, err)
		}
		return ws.Encode(ws.TypeProgressUpdate, msg.RequestID, progress)

	default:
		return ws.Encode(ws.TypeError, msg.RequestID, ws.ErrorPayload{
			Code:    httperrors.ErrCodeUnknownMessageType,
			Message: "unknown message type " + msg.Type,
		})
	}
}

// completionFrame builds the quiz_complete push once the last answer lands.
func (h *Handler) completionFrame(id uuid.UUID, requestID string) *ws.Message {
	var frame *ws.Message
	_ = h.store.With(id, func(s *Session) error {
		if s.Active || s.EndTime == nil {
			return nil
		}
		stats, ok := s.Stats()
		if !ok {
			return nil
		}
		m := ws.Encode(ws.TypeQuizComplete, requestID, stats)
		frame = &m
		return nil
	})
	return frame
}

func wsError(requestID string, err error) ws.Message {
	code := httperrors.ErrCodeInternalError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		code = httperrors.ErrCodeSessionNotFound
	case errors.Is(err, ErrNoActiveQuestion):
		code = httperrors.ErrCodeNoActiveQuestion
	}
	return ws.Encode(ws.TypeError, requestID, ws.ErrorPayload{Code: code, Message: err.Error()})
}
