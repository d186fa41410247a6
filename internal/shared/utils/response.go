// Package utils holds the JSON envelope every HTTP endpoint answers with.
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/errors"
)

// APIResponse is the body of every JSON response.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type" example:"not_found"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

var typeByStatus = map[int]errors.ErrorType{
	http.StatusBadRequest:      errors.ErrorTypeValidation,
	http.StatusUnauthorized:    errors.ErrorTypeUnauthorized,
	http.StatusPaymentRequired: errors.ErrorTypePaymentRequired,
	http.StatusForbidden:       errors.ErrorTypeForbidden,
	http.StatusNotFound:        errors.ErrorTypeNotFound,
	http.StatusConflict:        errors.ErrorTypeConflict,
}

// errorTypeFor names the error class of a bare status code.
func errorTypeFor(status int) string {
	if t, ok := typeByStatus[status]; ok {
		return string(t)
	}
	if status >= http.StatusInternalServerError {
		return string(errors.ErrorTypeInternal)
	}
	return "error"
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		RequestID: c.GetString(constants.ContextKeyRequestID),
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	writeError(c, statusCode, ErrorInfo{Type: errorTypeFor(statusCode), Message: message})
}

// ErrorResponseWithError answers with the status of an AppError. Any other
// error becomes a 500 whose message hides the cause.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		writeError(c, http.StatusInternalServerError, ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: "Internal server error occurred",
		})
		return
	}

	writeError(c, appErr.HTTPStatus(), ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// AbortWithError writes an error response and stops the handler chain.
func AbortWithError(c *gin.Context, statusCode int, message string) {
	ErrorResponse(c, statusCode, message)
	c.Abort()
}

// AbortWithAppError is AbortWithError for a typed error.
func AbortWithAppError(c *gin.Context, err error) {
	ErrorResponseWithError(c, err)
	c.Abort()
}

func writeError(c *gin.Context, statusCode int, info ErrorInfo) {
	c.JSON(statusCode, APIResponse{
		Success:   false,
		Error:     &info,
		RequestID: c.GetString(constants.ContextKeyRequestID),
	})
}
