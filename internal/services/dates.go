package services

import "time"

// Date arithmetic for anniversaries. All functions are pure, take an explicit
// reference day, and work on calendar dates normalized to UTC midnight.
//
// Feb-29 anchors are treated as occurring on Feb-28 in non-leap years; the
// same mapping is applied everywhere an occurrence date is derived.

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// occurrenceInYear returns the anchor's occurrence date in the given year.
func occurrenceInYear(anchor time.Time, year int) time.Time {
	month, day := anchor.Month(), anchor.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of whole days from anchor to today.
func DaysSince(anchor, today time.Time) int {
	return int(dateOnly(today).Sub(dateOnly(anchor)).Hours() / 24)
}

// YearsSince returns the number of full years elapsed since anchor. The year
// does not count until the anniversary has occurred in the current calendar
// year. Never negative.
func YearsSince(anchor, today time.Time) int {
	today = dateOnly(today)
	years := today.Year() - anchor.Year()
	if today.Before(occurrenceInYear(anchor, today.Year())) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// NextAnniversary returns the next occurrence of the anchor on or after
// today. On the anniversary itself it returns today's occurrence.
func NextAnniversary(anchor, today time.Time) time.Time {
	today = dateOnly(today)
	candidate := occurrenceInYear(anchor, today.Year())
	if candidate.Before(today) {
		candidate = occurrenceInYear(anchor, today.Year()+1)
	}
	return candidate
}

// DaysToNextAnniversary returns the number of days until the next occurrence,
// zero on the anniversary itself. The result is always in [0, 366).
func DaysToNextAnniversary(anchor, today time.Time) int {
	return DaysSince(today, NextAnniversary(anchor, today))
}
