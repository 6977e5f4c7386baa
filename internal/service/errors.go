package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/models"
)

// Error is the request-level failure taxonomy. The HTTP layer maps Status to
// the response code and renders the rest into the JSON error envelope.
type Error struct {
	Status  int
	Message string
	Detail  string
	Diag    *models.UpstreamDiag
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func Upstream(diag *models.UpstreamDiag) *Error {
	return &Error{
		Status:  http.StatusBadGateway,
		Message: "no ESPN host returned league data",
		Diag:    diag,
	}
}

func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
		Detail:  err.Error(),
	}
}

// AsError folds any error into the taxonomy so handlers deal with exactly
// one shape.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var upstream *espn.UpstreamError
	if errors.As(err, &upstream) {
		return Upstream(upstream.Diag)
	}
	return Internal(err)
}
