package tracker

import "time"

func ISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// StartOfWeek returns midnight of the Monday on or before t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func WeekKey(t time.Time) string {
	return ISODate(StartOfWeek(t))
}

// CurrentStreak counts consecutive completed days going back from today.
// An unfinished today ends the streak at zero.
func CurrentStreak(completions map[string]bool, now time.Time) int {
	y, m, d := now.Date()
	cursor := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	streak := 0
	for completions[ISODate(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
