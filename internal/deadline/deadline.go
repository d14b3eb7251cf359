// Package deadline maps a task's due-by token to its priority tier and
// absolute deadline, and answers overdue questions about that deadline.
package deadline

import (
	"time"

	"github.com/balkashynov/duedeck/internal/models"
)

// UnknownWeight is the urgency weight of tokens outside the known set
const UnknownWeight = 99

// Result is the derived pair for a due-by token
type Result struct {
	Priority models.Priority
	Deadline *time.Time
}

var known = []models.DueBy{
	models.DueByOneHour,
	models.DueBySixHours,
	models.DueByToday,
	models.DueByThreeDays,
	models.DueByThisWeek,
	models.DueByThisMonth,
	models.DueByBackburner,
}

// All returns the due-by tokens in urgency order
func All() []models.DueBy {
	out := make([]models.DueBy, len(known))
	copy(out, known)
	return out
}

// Known reports whether dueBy is one of the recognised tokens
func Known(dueBy models.DueBy) bool {
	for _, k := range known {
		if k == dueBy {
			return true
		}
	}
	return false
}

// Derive computes the priority and deadline for dueBy relative to now.
// Local time is now's location. Unrecognised tokens fall back to the
// Backburner tier with no deadline.
func Derive(dueBy models.DueBy, now time.Time) Result {
	switch dueBy {
	case models.DueByOneHour:
		return result(models.PriorityP1, now.Add(time.Hour))
	case models.DueBySixHours:
		return result(models.PriorityP1, now.Add(6*time.Hour))
	case models.DueByToday:
		return result(models.PriorityP1, EndOfDay(now))
	case models.DueByThreeDays:
		return result(models.PriorityP2, now.AddDate(0, 0, 3))
	case models.DueByThisWeek:
		return result(models.PriorityP2, EndOfWeek(now))
	case models.DueByThisMonth:
		return result(models.PriorityP3, EndOfMonth(now))
	default:
		return Result{Priority: models.PriorityBackburner}
	}
}

func result(p models.Priority, d time.Time) Result {
	return Result{Priority: p, Deadline: &d}
}

// EndOfDay returns 23:59:59.999 on t's calendar day
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// EndOfWeek returns the end of the upcoming Sunday, or of today on a Sunday
func EndOfWeek(t time.Time) time.Time {
	daysLeft := (7 - int(t.Weekday())) % 7
	return EndOfDay(t.AddDate(0, 0, daysLeft))
}

// EndOfMonth returns the end of the last day of t's month
func EndOfMonth(t time.Time) time.Time {
	// day 0 of next month is the last day of this one
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	return EndOfDay(last)
}

// IsPast reports whether a deadline exists and lies before now
func IsPast(deadline *time.Time, now time.Time) bool {
	return deadline != nil && deadline.Before(now)
}

// IsOverdue reports whether a task in status with the given deadline is overdue.
// Completed tasks and tasks without a deadline are never overdue.
func IsOverdue(status models.Status, deadline *time.Time, now time.Time) bool {
	return status != models.StatusDone && IsPast(deadline, now)
}

// TaskOverdue is IsOverdue applied to a task
func TaskOverdue(t models.Task, now time.Time) bool {
	return IsOverdue(t.Status, t.TargetDeadline, now)
}

// UrgencyWeight orders due-by tokens from most to least urgent
func UrgencyWeight(dueBy models.DueBy) int {
	switch dueBy {
	case models.DueByOneHour:
		return 1
	case models.DueBySixHours:
		return 2
	case models.DueByToday:
		return 3
	case models.DueByThreeDays:
		return 4
	case models.DueByThisWeek:
		return 5
	case models.DueByThisMonth:
		return 6
	default:
		return UnknownWeight
	}
}
