package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/backstack/pkg/domain"
)

// errBadRequest marks undecodable request bodies.
var errBadRequest = errors.New("invalid request body")

type requestError struct{ cause error }

func (e *requestError) Error() string { return errBadRequest.Error() + ": " + e.cause.Error() }
func (e *requestError) Unwrap() []error {
	return []error{errBadRequest, e.cause}
}

func badRequest(err error) error {
	return &requestError{cause: err}
}

// StatusOf maps navigation errors to HTTP status codes.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRouteNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRemoveCurrentRoute), errors.Is(err, domain.ErrRouteNotInStack):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidIndex), errors.Is(err, domain.ErrUnknownAction), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()}, s.logger)
}
