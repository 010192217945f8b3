package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error             `json:"-"`
	HTTPCode  int               `json:"-"`
	Code      ErrorCode         `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

func newAppError(raw error, httpCode int, code ErrorCode, message string) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  httpCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error")
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message)
}

func ErrNotFound(resource string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource))
}

func ErrInvalidPayload() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_PAYLOAD, "Invalid payload")
}

func ErrTooManyRequests() AppError {
	return newAppError(nil, http.StatusTooManyRequests, ErrorCode_TOO_MANY_REQUESTS, "Too many requests")
}

// Extraction Errors
func ErrAnalysisUnavailable(err error) AppError {
	return newAppError(err, http.StatusServiceUnavailable, ErrorCode_ANALYSIS_UNAVAILABLE, "Linguistic analysis unavailable")
}

func ErrProviderUnavailable(provider string) AppError {
	return newAppError(nil, http.StatusServiceUnavailable, ErrorCode_PROVIDER_UNAVAILABLE, "Extraction provider not configured").
		WithDetail("provider", provider)
}

func ErrTranscriptEmpty() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_TRANSCRIPT_EMPTY, "Either texto or object_key is required")
}

// AI Analysis Errors
func ErrAIAnalysisFailed(err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_AI_ANALYSIS_FAILED, "Erro ao processar resposta da IA")
}

func ErrAIServiceUnavailable(service string, err error) AppError {
	return newAppError(err, http.StatusServiceUnavailable, ErrorCode_AI_SERVICE_UNAVAILABLE, "AI service temporarily unavailable").
		WithDetail("service", service)
}

func ErrAIQuotaExceeded() AppError {
	return newAppError(nil, http.StatusTooManyRequests, ErrorCode_AI_QUOTA_EXCEEDED, "AI service quota exceeded")
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_INTEGRATION_STORAGE_FAILED, fmt.Sprintf("Storage operation failed: %s", operation))
}


// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_DB_QUERY_FAILED, "Database query failed").
		WithDetail("query", query)
}
