package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/stages"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *schemas.ValidationError
	switch {
	case errors.Is(err, stages.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, insights.ErrEmptyTranscript):
		return http.StatusBadRequest
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
