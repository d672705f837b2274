package history

import "errors"

var (
	ErrExecutionNotFound = errors.New("execution not found")
	ErrInvalidFidelity   = errors.New("invalid detail level")
)
