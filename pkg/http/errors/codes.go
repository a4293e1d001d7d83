package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"

	// Session errors
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeInvalidSessionID = "invalid_session_id"
	ErrCodeQuizInProgress   = "quiz_in_progress"
	ErrCodeEmptyQuiz        = "empty_quiz"
	ErrCodeNoActiveQuestion = "no_active_question"
	ErrCodeNoData           = "no_data"

	// Question source errors
	ErrCodeInvalidQuestion   = "invalid_question"
	ErrCodeUnknownDifficulty = "unknown_difficulty"
	ErrCodeGenerationFailed  = "generation_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeExportFailed  = "export_failed"
)
