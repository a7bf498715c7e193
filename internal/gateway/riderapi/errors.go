package riderapi

import (
	"errors"
	"fmt"
	"net/http"

	"service-rider-web/internal/apperr"
)

// APIError is a non-2xx answer of the rider API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rider api: status %d", e.Status)
	}
	return fmt.Sprintf("rider api: status %d: %s", e.Status, e.Message)
}

// Unwrap maps the HTTP status onto the apperr sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	case http.StatusForbidden:
		return apperr.ErrForbidden
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperr.ErrInvalid
	default:
		return nil
	}
}

// Message returns the server-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusOf returns the HTTP status carried by err, or 0 for transport failures.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
