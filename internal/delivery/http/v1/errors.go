package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/smart-task/internal/services"
)

// Client-facing messages.
const (
	msgInvalidRequestBody = "Invalid request body"
	msgNotAuthorized      = "Not authorized"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{
		"success": false,
		"message": err.Message,
	})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

// abortWithServiceError maps a service error to its status code.
// Unclassified errors are logged and hidden behind a generic 500.
func (h *handlerImpl) abortWithServiceError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidSession):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrUserAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg(msg)
		abort(c, newStatusTextError(status))
		return
	}

	h.logger.Debug().
		Err(err).
		Int("status", status).
		Msg(msg)
	abort(c, newAPIError(status, err.Error()))
}
