package apperr

import "errors"

// ErrInvalid is returned when the input fails validation before any remote call.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a state conflict, e.g. a status change for an order that is not in transit.
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized indicates that the rider API rejected the bearer token (HTTP 401).
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated identity whose role may not use this client.
var ErrForbidden = errors.New("forbidden")
