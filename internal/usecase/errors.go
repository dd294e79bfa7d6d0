package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// id/slugが見つからない → 404
func NewNotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

// 入力不正・ドメインルール違反 → 400
func NewValidation(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// 一意制約・FK違反 → 409
func NewConflict(message string) error {
	return NewHTTPError(http.StatusConflict, message)
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
