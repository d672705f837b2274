package diff

import "fmt"

// FetchError reports which side of a comparison could not be loaded.
type FetchError struct {
	Side       string
	WorkflowID string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("execution %s (%s): %v", e.Side, e.WorkflowID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
