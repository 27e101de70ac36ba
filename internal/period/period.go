package period

import "time"

// Kind is the recurrence granularity of an activity.
type Kind string

const (
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// DateLayout is the canonical representation of a period start.
const DateLayout = "2006-01-02"

func (k Kind) Valid() bool {
	switch k {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Start returns the canonical period-start date for the given instant,
// shifted by the user's day-end offset. The offset moves the boundary
// between logical days: a user whose day ends at 02:00 uses offset 120,
// so 01:30 still belongs to the previous date.
//
// daily   -> the UTC calendar date of instant-offset
// weekly  -> the Sunday of that adjusted week
// monthly -> the first of that adjusted month
func Start(kind Kind, instant time.Time, offsetMinutes int) string {
	adjusted := instant.Add(-time.Duration(offsetMinutes) * time.Minute).UTC()

	switch kind {
	case Weekly:
		adjusted = adjusted.AddDate(0, 0, -int(adjusted.Weekday()))
	case Monthly:
		adjusted = time.Date(adjusted.Year(), adjusted.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	return adjusted.Format(DateLayout)
}

// DayOfWeek returns the UTC weekday (0=Sunday..6=Saturday) of the
// offset-adjusted instant. This is the weekday whose recurring schedule
// applies, which is not always the weekday of the wall-clock date.
func DayOfWeek(instant time.Time, offsetMinutes int) int {
	adjusted := instant.Add(-time.Duration(offsetMinutes) * time.Minute).UTC()
	return int(adjusted.Weekday())
}
