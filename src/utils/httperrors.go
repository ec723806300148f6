package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// HTTPError defines a custom error structure that includes an HTTP status code and message
type HTTPError struct {
	Code    int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// ValidationFailed creates a 400 carrying per-field messages
func ValidationFailed(message string, fields map[string][]string) error {
	return &HTTPError{Code: http.StatusBadRequest, Message: message, Errors: fields}
}

func Unauthorized(message string) error {
	return NewHTTPError(http.StatusUnauthorized, message)
}

func Forbidden(message string) error {
	return NewHTTPError(http.StatusForbidden, message)
}

func NotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

func InternalServerError(message string) error {
	return NewHTTPError(http.StatusInternalServerError, message)
}

// BadGateway is used when an upstream price or rate provider cannot answer
func BadGateway(message string) error {
	return NewHTTPError(http.StatusBadGateway, message)
}

func ServiceUnavailable(message string) error {
	return NewHTTPError(http.StatusServiceUnavailable, message)
}

// WriteError sends err as a JSON error body. Anything that is not an *HTTPError becomes a 500.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Internal Server Error",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   false,
		"error":     httpErr.Message,
		"errors":    httpErr.Errors,
		"timestamp": time.Now().UTC(),
	})
}
