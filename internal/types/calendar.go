package types

import "time"

// EventType classifies a derived calendar event.
type EventType string

const (
	EventDeadline  EventType = "deadline"
	EventInterview EventType = "interview"
	EventGeneric   EventType = "event"
)

// EventTypeLabels holds the display label for each event type.
var EventTypeLabels = map[EventType]string{
	EventDeadline:  "締切",
	EventInterview: "面接",
	EventGeneric:   "イベント",
}

// CalendarEvent is derived from step dates on every read and never stored.
type CalendarEvent struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	StepID      string    `json:"stepId,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}
