package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these onto HTTP status codes; everything else is a 500.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEventCancelled = errors.New("event cancelled")
	ErrCategoryInUse  = errors.New("category is referenced by events")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrUserNotFound   = errors.New("user not found")
)
