package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/search"
)

var (
	// ErrNotFound is returned for lookups of unknown profiles.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a collaborator that is not configured or not
	// reachable.
	ErrUnavailable = errors.New("service unavailable")
	// ErrBadRequest wraps malformed request bodies and query strings.
	ErrBadRequest = errors.New("bad request")
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatusFor maps an error to its HTTP status and a short machine code.
func StatusFor(err error) (int, string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, profile.ErrInvalidProfile):
		return http.StatusUnprocessableEntity, "invalid_profile"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, search.ErrUnsatisfiable):
		return http.StatusBadRequest, "unsatisfiable_query"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}
