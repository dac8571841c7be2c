// Package fees computes late fees for overdue borrowings.
package fees

import "time"

// Calculate returns the late fee for a borrowing given its due date, its
// return date (nil while the book is still out) and the weekly fee rate.
//
// The fee counts started weeks: 1-7 days late is one week, 8-14 two, and so
// on. A nil due date or an on-time return yields zero. The result is pure in
// its inputs except that a nil return date is measured against today.
func Calculate(dueDate, returnDate *time.Time, weeklyFee int) int {
	return CalculateAt(dueDate, returnDate, weeklyFee, time.Now())
}

// CalculateAt is Calculate with an explicit "today" for the open-ended case.
func CalculateAt(dueDate, returnDate *time.Time, weeklyFee int, now time.Time) int {
	if dueDate == nil {
		return 0
	}

	end := now
	if returnDate != nil {
		end = *returnDate
	}

	// Calendar-day granularity: a return at 23:59 the day after the due
	// date is one day late regardless of the hour.
	due := truncateToDay(*dueDate)
	end = truncateToDay(end)

	if !end.After(due) {
		return 0
	}

	daysLate := int(end.Sub(due) / (24 * time.Hour))
	weeksLate := (daysLate + 6) / 7
	return weeksLate * weeklyFee
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
