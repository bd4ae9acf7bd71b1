package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var defaultMessages = map[string]string{
	ErrCodeUnauthorized:       "Authentication required",
	ErrCodeInvalidCredentials: "Invalid username or password",
	ErrCodeInvalidInput:       "Invalid request",
	ErrCodeValidationFailed:   "The given data was invalid",
	ErrCodeNotFound:           "Resource not found",
	ErrCodeConflict:           "Resource conflict",
	ErrCodeInternalError:      "Internal server error",
	ErrCodeServiceUnavailable: "Service temporarily unavailable",
}

// APIError is the body of every JSON error response
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Respond aborts the request with an error body. An empty message is
// replaced by the code's default message.
func Respond(c *gin.Context, status int, code, message string, details map[string]string) {
	if message == "" {
		message = defaultMessages[code]
	}
	c.AbortWithStatusJSON(status, &APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	Respond(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, nil)
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	Respond(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, message, nil)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	Respond(c, http.StatusNotFound, ErrCodeNotFound, message, nil)
}

// BadRequest sends a 400 response for bodies that cannot be read at all
func BadRequest(c *gin.Context, message string) {
	Respond(c, http.StatusBadRequest, ErrCodeInvalidInput, message, nil)
}

// UnprocessableEntity sends a 422 response carrying field -> message details
func UnprocessableEntity(c *gin.Context, details map[string]string) {
	Respond(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed, "", details)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	Respond(c, http.StatusConflict, ErrCodeConflict, message, nil)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	Respond(c, http.StatusInternalServerError, ErrCodeInternalError, message, nil)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, nil)
}
