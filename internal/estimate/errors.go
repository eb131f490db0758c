package estimate

import "errors"

var (
	// ErrNotFound is returned when an estimate or line item doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when request validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLocked is returned when editing a confirmed estimate.
	ErrLocked = errors.New("estimate is confirmed; create a new version to change it")
)
