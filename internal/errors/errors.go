package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common error types for the admin console
var (
	// Backend errors
	ErrBackendAuthRequired = errors.New("backend authentication required")
	ErrTransport           = errors.New("backend request failed")
	ErrUnauthorized        = errors.New("unauthorized")

	// Form errors
	ErrValidation = errors.New("validation failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidState    = errors.New("invalid state")

	// General errors
	ErrNotFound = errors.New("not found")
)

// APIError is returned when the backend answers with a non-success status.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return "api error: " + status
	}
	return fmt.Sprintf("api error: %s %s", status, body)
}

// Is lets callers test backend failures against the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
