package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/errors"
	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID reads the request id set by the RequestID middleware
func getRequestID(c echo.Context) string {
	if c == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	appErr := toAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError translates domain errors into API errors
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	switch {
	case stdErrors.Is(err, entities.ErrUnknownProvider):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrProviderUnavailable):
		return errors.ErrProviderUnavailable(err.Error())
	case stdErrors.Is(err, entities.ErrTranscriptEmpty):
		return errors.ErrTranscriptEmpty()
	case stdErrors.Is(err, entities.ErrInvalidBaseDate):
		return errors.ErrInvalidArgument("data_base must be YYYY-MM-DD")
	case stdErrors.Is(err, entities.ErrTranscriptMissing):
		return errors.ErrNotFound("transcript")
	case stdErrors.Is(err, entities.ErrStorageDisabled):
		return errors.ErrInvalidArgument("object_key is not supported: transcript storage is disabled")
	case stdErrors.Is(err, entities.ErrStorageFailure):
		return errors.ErrStorageFailed("get transcript", err)
	case stdErrors.Is(err, entities.ErrRunNotFound):
		return errors.ErrNotFound("extraction run")
	case stdErrors.Is(err, entities.ErrHistoryDisabled):
		return errors.ErrNotFound("extraction history")
	case stdErrors.Is(err, entities.ErrAnalysisUnavailable):
		return errors.ErrAnalysisUnavailable(err)
	case stdErrors.Is(err, entities.ErrLLMQuotaExceeded):
		return errors.ErrAIQuotaExceeded()
	case stdErrors.Is(err, entities.ErrLLMResponseInvalid):
		return errors.ErrAIAnalysisFailed(err)
	case stdErrors.Is(err, entities.ErrLLMUnavailable):
		return errors.ErrAIServiceUnavailable("gemini", err)
	case stdErrors.Is(err, context.DeadlineExceeded):
		return errors.ErrAnalysisUnavailable(err)
	case stdErrors.As(err, &httpErr):
		if httpErr.Code == http.StatusTooManyRequests {
			return errors.ErrTooManyRequests()
		}
		if httpErr.Code < http.StatusInternalServerError {
			appErr = errors.ErrInvalidArgument(http.StatusText(httpErr.Code))
			appErr.HTTPCode = httpErr.Code
			return appErr
		}
	}
	return errors.ErrInternal(err)
}
