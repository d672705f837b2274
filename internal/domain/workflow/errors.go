package workflow

import "errors"

var (
	ErrInvalidLimit         = errors.New("limit must be between 1 and 50")
	ErrInvalidAggregate     = errors.New("aggregate must be count, list or sample")
	ErrInvalidTaskQueueType = errors.New("task queue type must be workflow or activity")
	ErrMissingArgument      = errors.New("missing required argument")
)
