package types

import (
	"fmt"
	"time"
)

// StepStatus is the progress of a single selection step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepScheduled StepStatus = "scheduled"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// Valid reports whether s is a known step status.
func (s StepStatus) Valid() bool {
	switch s {
	case StepPending, StepScheduled, StepCompleted, StepFailed:
		return true
	}
	return false
}

// ParseStepStatus validates a raw step status string.
func ParseStepStatus(raw string) (StepStatus, error) {
	s := StepStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown step status: %q", raw)
	}
	return s, nil
}

// SelectionStep is one datable milestone in a company's pipeline.
// Order is assigned on insert and never renumbered, so it may have gaps.
type SelectionStep struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	Status        StepStatus `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	Order         int        `json:"order"`
}

// StepPatch is a partial update to a step. Nil fields are left untouched.
type StepPatch struct {
	Name               *string    `json:"name,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	ScheduledDate      *time.Time `json:"scheduledDate,omitempty"`
	CompletedDate      *time.Time `json:"completedDate,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	ClearDeadline      bool       `json:"clearDeadline,omitempty"`
	ClearScheduledDate bool       `json:"clearScheduledDate,omitempty"`
	ClearCompletedDate bool       `json:"clearCompletedDate,omitempty"`
}
