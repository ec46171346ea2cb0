package api

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
)

var relativeDue = regexp.MustCompile(`^\+?(\d+)(d|w)$`)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseDueDate converts due date shorthand into local midnight of the
// chosen day. It accepts "today", "tomorrow", "3d", "+2w", a weekday name
// (the next such day, never today) and "2006-01-02". An empty string or
// "none" yields nil.
func ParseDueDate(s string, now time.Time) (*time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := domain.StartOfDay(now, now.Location())

	switch s {
	case "", "none":
		return nil, nil
	case "today":
		return &today, nil
	case "tomorrow":
		d := today.AddDate(0, 0, 1)
		return &d, nil
	}

	if m := relativeDue.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.NewInvalidInputError("due", s, "invalid number of days")
		}
		if m[2] == "w" {
			n *= 7
		}
		d := today.AddDate(0, 0, n)
		return &d, nil
	}

	if wd, ok := weekdays[s]; ok {
		days := (int(wd) - int(today.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		d := today.AddDate(0, 0, days)
		return &d, nil
	}

	d, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return nil, errors.NewInvalidInputError("due", s, "use today, tomorrow, 3d, 2w, a weekday or YYYY-MM-DD")
	}
	return &d, nil
}
