package types

import "time"

// CreateCompanyRequest creates a company with optional profile fields.
type CreateCompanyRequest struct {
	Name          string          `json:"name" validate:"required"`
	Industry      string          `json:"industry,omitempty"`
	EmployeeCount string          `json:"employeeCount,omitempty"`
	Location      string          `json:"location,omitempty"`
	Website       string          `json:"website,omitempty" validate:"omitempty,url"`
	Description   string          `json:"description,omitempty"`
	JobType       string          `json:"jobType,omitempty"`
	Salary        string          `json:"salary,omitempty"`
	WorkLocation  string          `json:"workLocation,omitempty"`
	Benefits      string          `json:"benefits,omitempty"`
	CurrentStatus SelectionStatus `json:"currentStatus,omitempty"`
	Priority      Priority        `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Favorite      bool            `json:"favorite,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateStatusRequest changes a company's pipeline status.
type UpdateStatusRequest struct {
	Status SelectionStatus `json:"status" validate:"required"`
}

// AddStepRequest appends a step to a company's pipeline.
type AddStepRequest struct {
	Name          string     `json:"name" validate:"required"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// SetStepStatusRequest assigns a step status directly.
type SetStepStatusRequest struct {
	Status StepStatus `json:"status" validate:"required,oneof=pending scheduled completed failed"`
}

// ScheduleGroup is one bucket of the upcoming schedule as returned by the API.
type ScheduleGroup struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Events []ScheduleEntry `json:"events"`
}

// ScheduleEntry decorates an event with presentation hints.
type ScheduleEntry struct {
	CalendarEvent
	Urgent       bool   `json:"urgent"`
	RelativeDate string `json:"relativeDate"`
}
