package handler

import (
	"errors"
	"net/http"

	"github.com/Rrens/finance-copilot/internal/api/response"
	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// writeError maps service errors onto HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, "Unauthorized access to this chat")
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case llm.IsRateLimit(err):
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Upstream rate limit")
		response.TooManyRequests(w, "Too Many Requests. Please wait a moment.")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		response.InternalError(w, err.Error())
	}
}

// validationErrors converts validator output to a field → message map
func validationErrors(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = "field is required"
		case "uuid":
			fields[e.Field()] = "must be a valid UUID"
		default:
			fields[e.Field()] = "validation failed on " + e.Tag()
		}
	}
	return fields
}
