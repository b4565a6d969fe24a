package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/geo-prospector/internal/prospect"
	"github.com/jonathan/geo-prospector/internal/schemas"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		abortErr  *prospect.AbortError
		schemaErr *schemas.ValidationError
		docErr    *schemas.DocumentError
		fieldErr  *ErrValidation
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &abortErr), errors.As(err, &schemaErr),
		errors.As(err, &docErr), errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
