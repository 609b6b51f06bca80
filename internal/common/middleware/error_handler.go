package middleware

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"miniapp-user-backend/internal/common/errors"
	"miniapp-user-backend/internal/common/validation"
	"miniapp-user-backend/internal/features/auth/verifier"
	"miniapp-user-backend/internal/features/user/repository"
	"miniapp-user-backend/internal/features/user/service"
)

const (
	RequestIDCtxKey = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// Recovery middleware для обработки паник
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error")
		sendErrorResponse(c, appErr, logger)
	})
}

// RequestID middleware для добавления ID запроса
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDCtxKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// HandleErrors renders the last error recorded with Abort once the chain
// is done, unless a response was already written.
func HandleErrors(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		sendErrorResponse(c, AppErrorFrom(c.Errors.Last().Err), logger)
	}
}

// Abort records err for HandleErrors and stops the chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

// AppErrorFrom maps verifier and user store errors to application errors.
func AppErrorFrom(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	var vErr *service.ValidationError
	switch {
	case stderrors.Is(err, verifier.ErrExpired):
		return errors.Wrap(err, errors.ErrCodeInitDataExpired, "Init data expired")
	case stderrors.Is(err, verifier.ErrMissingInput),
		stderrors.Is(err, verifier.ErrMissingSignature),
		stderrors.Is(err, verifier.ErrSignatureMismatch):
		return errors.NewInvalidInitDataError(err)
	case stderrors.Is(err, service.ErrPayloadTooLarge):
		field := "user_data"
		if stderrors.As(err, &vErr) {
			field = vErr.Field
		}
		appErr := errors.NewPayloadTooLargeError(field, validation.MaxUserDataBytes)
		appErr.Cause = err
		return appErr
	case stderrors.As(err, &vErr):
		appErr := errors.NewValidationError(vErr.Field, vErr.Reason)
		appErr.Cause = err
		return appErr
	case stderrors.Is(err, service.ErrUserNotFound):
		return errors.Wrap(err, errors.ErrCodeUserNotFound, "User not found")
	case stderrors.Is(err, service.ErrStoreUnavailable):
		return errors.NewStoreUnavailableError("user_store", err)
	case stderrors.Is(err, repository.ErrCorruptRecord):
		return errors.Wrap(err, errors.ErrCodeInternal, "Stored user record is unreadable")
	default:
		return errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
	}
}

// sendErrorResponse отправляет ошибку в формате JSON
func sendErrorResponse(c *gin.Context, appErr *errors.AppError, logger zerolog.Logger) {
	requestID := GetRequestID(c)

	appErr.WithRequestID(requestID).
		WithContext("path", c.Request.URL.Path).
		WithContext("method", c.Request.Method)
	if id, ok := GetIdentity(c); ok {
		appErr.WithUserID(id.ID)
	}

	response := ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	}

	logError(appErr, logger)

	c.AbortWithStatusJSON(getHTTPStatusCode(appErr), response)
}

// getHTTPStatusCode возвращает HTTP статус код для ошибки
func getHTTPStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case errors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidInitData, errors.ErrCodeInitDataExpired:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// logError логирует ошибку с контекстом
func logError(appErr *errors.AppError, logger zerolog.Logger) {
	var event *zerolog.Event
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.IsUnauthorized():
		event = logger.Warn()
	default:
		event = logger.Info()
	}

	event = event.
		Str("request_id", appErr.RequestID).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)

	if appErr.UserID != "" {
		event = event.Str("user_id", appErr.UserID)
	}
	if len(appErr.Context) > 0 {
		event = event.Fields(map[string]interface{}{"context": appErr.Context})
	}
	if len(appErr.Details) > 0 {
		detailsJSON, _ := json.Marshal(appErr.Details)
		event = event.RawJSON("details", detailsJSON)
	}
	// verifier causes carry no secrets, only the failure kind
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}

	event.Msgf("Request failed: %s", appErr.Code)
}

// GetRequestID получает ID запроса из контекста
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDCtxKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
