package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func Validation(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

func Unauthorized(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized}
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}

// StatusCode returns the http status carried by err, or 500 for plain errors.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
