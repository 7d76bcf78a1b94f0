package models

import "errors"

// Domain error sentinels. Services wrap them with context via
// fmt.Errorf("%w: ...", ...) and handlers map them to HTTP status codes
// with errors.Is, so raw persistence errors never reach a response body.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)
