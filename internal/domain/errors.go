package domain

import "errors"

// Sentinel errors for the request-level taxonomy. Services wrap these with
// fmt.Errorf("%w: detail") and handlers map them to HTTP status codes.
// None of them implies a partial write: every guard runs before side effects.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)
