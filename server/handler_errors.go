package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

const msgBackendAuthFailed = "Backend authentication failed. The backend did not accept your Google sign-in; sign out and sign in again."

// errorStatus maps an action error to the HTTP status of the page or panel showing it.
func errorStatus(err error) int {
	var apiErr *apperrors.APIError
	switch {
	case apperrors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case apperrors.Is(err, apperrors.ErrBackendAuthRequired), apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrTransport), apperrors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the text shown to the operator.
func errorMessage(err error) string {
	var apiErr *apperrors.APIError
	switch {
	case apperrors.Is(err, apperrors.ErrBackendAuthRequired):
		return msgBackendAuthFailed
	case apperrors.As(err, &apiErr):
		return apiErr.Error()
	case apperrors.Is(err, apperrors.ErrTransport):
		return "The backend could not be reached. Please try again."
	default:
		return err.Error()
	}
}

func logError(r *http.Request, err error, msg string) {
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
}
