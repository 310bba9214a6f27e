// Package selection implements the per-company selection step list and its status transitions.
package selection

import "fmt"

// Error is returned for invalid step operations.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when a step id does not exist on the company.
type NotFoundError struct {
	StepID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("selection step not found: %s", e.StepID)
}
