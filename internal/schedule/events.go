// Package schedule turns stored selection steps into calendar events and groups
// upcoming events into relative time buckets.
package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// deadlineSuffix is appended to a step name to title its deadline event.
const deadlineSuffix = " 締切"

// ClassifyStepType infers the event type of a step's scheduled date from its name.
// Names containing 面接 or "interview" (any case) are interviews.
func ClassifyStepType(name string) types.EventType {
	if strings.Contains(name, "面接") || strings.Contains(strings.ToLower(name), "interview") {
		return types.EventInterview
	}
	return types.EventGeneric
}

// DeriveEvents emits one deadline event and one scheduled event per step where
// the respective date is set. Output follows company order, then step order.
func DeriveEvents(companies []types.Company) []types.CalendarEvent {
	var events []types.CalendarEvent
	for _, c := range companies {
		for _, step := range c.SelectionSteps {
			if step.Deadline != nil {
				events = append(events, types.CalendarEvent{
					ID:          c.ID + "-" + step.ID + "-deadline",
					CompanyID:   c.ID,
					CompanyName: c.Name,
					Title:       step.Name + deadlineSuffix,
					Date:        *step.Deadline,
					Type:        types.EventDeadline,
					StepID:      step.ID,
					Notes:       step.Notes,
				})
			}
			if step.ScheduledDate != nil {
				events = append(events, types.CalendarEvent{
					ID:          c.ID + "-" + step.ID + "-scheduled",
					CompanyID:   c.ID,
					CompanyName: c.Name,
					Title:       step.Name,
					Date:        *step.ScheduledDate,
					Type:        ClassifyStepType(step.Name),
					StepID:      step.ID,
					Notes:       step.Notes,
				})
			}
		}
	}
	return events
}

// SortEvents returns a copy sorted by date ascending. Events on the same
// instant keep their relative order.
func SortEvents(events []types.CalendarEvent) []types.CalendarEvent {
	out := make([]types.CalendarEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// EventsBetween returns the events with from <= date < to, sorted by date.
// A zero bound is open.
func EventsBetween(events []types.CalendarEvent, from, to time.Time) []types.CalendarEvent {
	var out []types.CalendarEvent
	for _, e := range events {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Date.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return SortEvents(out)
}

// EventsOn returns the events on the calendar day containing day, in day's location.
func EventsOn(events []types.CalendarEvent, day time.Time) []types.CalendarEvent {
	start := StartOfDay(day)
	return EventsBetween(events, start, start.AddDate(0, 0, 1))
}

// Upcoming returns at most limit events dated today or later, soonest first.
// A limit of zero or less returns all of them.
func Upcoming(events []types.CalendarEvent, now time.Time, limit int) []types.CalendarEvent {
	out := EventsBetween(events, StartOfDay(now), time.Time{})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
