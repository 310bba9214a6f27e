package schedule

import (
	"fmt"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// GroupKey identifies a relative time bucket.
type GroupKey string

const (
	GroupToday    GroupKey = "today"
	GroupTomorrow GroupKey = "tomorrow"
	GroupThisWeek GroupKey = "this_week"
	GroupNextWeek GroupKey = "next_week"
	GroupLater    GroupKey = "later"
)

// GroupOrder is the fixed display order of the buckets.
var GroupOrder = []GroupKey{GroupToday, GroupTomorrow, GroupThisWeek, GroupNextWeek, GroupLater}

// GroupLabels holds the display label for each bucket.
var GroupLabels = map[GroupKey]string{
	GroupToday:    "今日",
	GroupTomorrow: "明日",
	GroupThisWeek: "今週",
	GroupNextWeek: "来週",
	GroupLater:    "来月以降",
}

// nextWeekHorizonDays is the inclusive whole-day distance still labelled next week.
const nextWeekHorizonDays = 14

// Group is one non-empty bucket of upcoming events.
type Group struct {
	Key    GroupKey
	Label  string
	Events []types.CalendarEvent
}

// GroupUpcoming drops events before the start of now's day, sorts the rest by
// date and buckets each into exactly one group. Empty groups are omitted.
func GroupUpcoming(events []types.CalendarEvent, now time.Time) []Group {
	buckets := make(map[GroupKey][]types.CalendarEvent, len(GroupOrder))
	for _, e := range Upcoming(events, now, 0) {
		key := Classify(e.Date, now)
		buckets[key] = append(buckets[key], e)
	}

	groups := make([]Group, 0, len(buckets))
	for _, key := range GroupOrder {
		if evs := buckets[key]; len(evs) > 0 {
			groups = append(groups, Group{Key: key, Label: GroupLabels[key], Events: evs})
		}
	}
	return groups
}

// Classify returns the bucket for date relative to now. The first match wins:
// same day, next day, same Monday-start week, at most 14 whole days ahead, later.
func Classify(date, now time.Time) GroupKey {
	today := StartOfDay(now)
	d := date.In(now.Location())
	switch {
	case sameDay(d, today):
		return GroupToday
	case sameDay(d, today.AddDate(0, 0, 1)):
		return GroupTomorrow
	case inWeekOf(d, today):
		return GroupThisWeek
	case wholeDaysBetween(now, date) <= nextWeekHorizonDays:
		return GroupNextWeek
	default:
		return GroupLater
	}
}

// IsUrgent reports whether the event falls today or tomorrow.
func IsUrgent(e types.CalendarEvent, now time.Time) bool {
	key := Classify(e.Date, now)
	return key == GroupToday || key == GroupTomorrow
}

var weekdayKanji = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// RelativeDateLabel renders a date as 今日, 明日, "N日後" within a week, or "M月d日(曜)".
func RelativeDateLabel(date, now time.Time) string {
	days := DaysUntil(date, now)
	switch {
	case days == 0:
		return "今日"
	case days == 1:
		return "明日"
	case days > 1 && days <= 7:
		return fmt.Sprintf("%d日後", days)
	}
	d := date.In(now.Location())
	return fmt.Sprintf("%d月%d日(%s)", int(d.Month()), d.Day(), weekdayKanji[d.Weekday()])
}

// DaysUntil counts calendar days from now's day to date's day in now's location.
func DaysUntil(date, now time.Time) int {
	fy, fm, fd := now.Date()
	ty, tm, td := date.In(now.Location()).Date()
	from := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	to := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// inWeekOf reports whether t falls in the Monday-start week containing day.
func inWeekOf(t, day time.Time) bool {
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 7)
	return !t.Before(start) && t.Before(end)
}

// wholeDaysBetween is the elapsed time from a to b truncated to whole days.
func wholeDaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
