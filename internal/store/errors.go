package store

import "errors"

// Errors surfaced by store operations. Handlers map these onto the response
// envelope; raw database error text never reaches a caller.
var (
	ErrNotFound  = errors.New("not found")
	ErrExpired   = errors.New("link expired")
	ErrExhausted = errors.New("link exhausted")
	ErrForbidden = errors.New("forbidden")
)
