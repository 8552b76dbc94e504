package apperrors

import "errors"

// Sentinel errors for the core domain. Services return these (possibly
// wrapped), handlers translate them to HTTP status codes with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")

	ErrInvalidInput     = errors.New("invalid input")
	ErrSelfReference    = errors.New("cannot reference yourself")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrDuplicateRequest = errors.New("friend request already exists")
	ErrAlreadyProcessed = errors.New("friend request already processed")
	ErrNotFriends       = errors.New("users are not friends")
	ErrInvalidReaction  = errors.New("invalid reaction")
	ErrMissingContent   = errors.New("story content is missing")
	ErrEmailTaken       = errors.New("email already exists")
)
