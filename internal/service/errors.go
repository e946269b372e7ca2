package service

import "errors"

var (
	// ErrNotFound covers both a genuinely missing resource and a resource
	// the actor may not touch. Non-admin callers get the same answer in
	// both cases so existence is not leaked.
	ErrNotFound = errors.New("not found")

	ErrIDRequired        = errors.New("id is required")
	ErrActorRequired     = errors.New("actor is required")
	ErrForbidden         = errors.New("forbidden")
	ErrMessageRequired   = errors.New("message is required")
	ErrRecipientRequired = errors.New("recipient is required")
)
