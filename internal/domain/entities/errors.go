package entities

import "errors"

// Domain errors
var (
	// Analysis errors
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	ErrTranscriptEmpty     = errors.New("transcript is empty")
	ErrInvalidBaseDate     = errors.New("base date must be YYYY-MM-DD")

	// Provider errors
	ErrUnknownProvider     = errors.New("unknown extraction provider")
	ErrProviderUnavailable = errors.New("extraction provider not configured")

	// LLM errors
	ErrLLMUnavailable     = errors.New("llm service unavailable")
	ErrLLMQuotaExceeded   = errors.New("llm quota exceeded")
	ErrLLMResponseInvalid = errors.New("llm response is not in the expected format")

	// Persistence errors
	ErrRunNotFound       = errors.New("extraction run not found")
	ErrHistoryDisabled   = errors.New("extraction history is disabled")
	ErrStorageDisabled   = errors.New("transcript storage is disabled")
	ErrTranscriptMissing = errors.New("transcript object not found")
	ErrStorageFailure    = errors.New("transcript storage failure")
)
