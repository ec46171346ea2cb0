package domain

import (
	"strings"
	"time"
)

// View is a named, date-relative selection of tasks.
type View string

const (
	ViewToday    View = "today"
	ViewUpcoming View = "upcoming"
	ViewAll      View = "all"
)

// ParseView converts user input into a View. An empty string means today.
func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewToday:
		return ViewToday, true
	case ViewUpcoming:
		return ViewUpcoming, true
	case ViewAll:
		return ViewAll, true
	}
	return "", false
}

// Matches reports whether the task belongs to the view as of now.
//
//	today:    due today, or undated and not completed
//	upcoming: due tomorrow or later and not completed
//	all:      everything
func (v View) Matches(t Task, now time.Time) bool {
	switch v {
	case ViewToday:
		if t.DueDate == nil {
			return !t.Completed
		}
		return StartOfDay(*t.DueDate, now.Location()).Equal(StartOfDay(now, now.Location()))
	case ViewUpcoming:
		if t.DueDate == nil || t.Completed {
			return false
		}
		tomorrow := StartOfDay(now, now.Location()).AddDate(0, 0, 1)
		return !StartOfDay(*t.DueDate, now.Location()).Before(tomorrow)
	case ViewAll:
		return true
	}
	return false
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
