package domain

import "time"

// A scoring week starts Monday 00:00:00 local time and ends Sunday 23:59:59
// inclusive (ISO week, not calendar-Sunday-start).

// StartOfWeek returns the Monday 00:00:00 that opens the week containing t,
// in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	if day == 0 {
		day = 7 // Sunday belongs to the week that started the previous Monday
	}
	monday := t.AddDate(0, 0, 1-day)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeekEnd returns the last instant of the week opened by weekStart: the end
// of weekStart+6 days.
func WeekEnd(weekStart time.Time) time.Time {
	end := weekStart.AddDate(0, 0, 7)
	return end.Add(-time.Nanosecond)
}

// InWeek reports whether t falls within the week opened by weekStart.
func InWeek(t, weekStart time.Time) bool {
	return !t.Before(weekStart) && !t.After(WeekEnd(weekStart))
}
