package deadline

import (
	"testing"
	"time"

	"github.com/balkashynov/duedeck/internal/models"
)

var zone = time.FixedZone("UTC+2", 2*60*60)

// Wednesday 14 Oct 2026, 10:30 local
var wednesday = time.Date(2026, time.October, 14, 10, 30, 0, 0, zone)

func TestDeriveMapping(t *testing.T) {
	tests := []struct {
		dueBy    models.DueBy
		priority models.Priority
		deadline time.Time
	}{
		{models.DueByOneHour, models.PriorityP1, wednesday.Add(time.Hour)},
		{models.DueBySixHours, models.PriorityP1, wednesday.Add(6 * time.Hour)},
		{models.DueByToday, models.PriorityP1, time.Date(2026, 10, 14, 23, 59, 59, 999000000, zone)},
		{models.DueByThreeDays, models.PriorityP2, time.Date(2026, 10, 17, 10, 30, 0, 0, zone)},
		{models.DueByThisWeek, models.PriorityP2, time.Date(2026, 10, 18, 23, 59, 59, 999000000, zone)},
		{models.DueByThisMonth, models.PriorityP3, time.Date(2026, 10, 31, 23, 59, 59, 999000000, zone)},
	}

	for _, tt := range tests {
		t.Run(string(tt.dueBy), func(t *testing.T) {
			got := Derive(tt.dueBy, wednesday)
			if got.Priority != tt.priority {
				t.Fatalf("expected priority %s, got %s", tt.priority, got.Priority)
			}
			if got.Deadline == nil {
				t.Fatal("expected a deadline, got nil")
			}
			if !got.Deadline.Equal(tt.deadline) {
				t.Fatalf("expected deadline %v, got %v", tt.deadline, *got.Deadline)
			}
		})
	}
}

func TestDeriveUnknownFailsSoft(t *testing.T) {
	for _, dueBy := range []models.DueBy{"", "Someday", "2 weeks", models.DueByBackburner} {
		got := Derive(dueBy, wednesday)
		if got.Priority != models.PriorityBackburner {
			t.Fatalf("%q: expected Backburner, got %s", dueBy, got.Priority)
		}
		if got.Deadline != nil {
			t.Fatalf("%q: expected nil deadline, got %v", dueBy, *got.Deadline)
		}
	}
}

func TestEndOfWeekOnSunday(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 8, 0, 0, 0, zone)
	got := EndOfWeek(sunday)
	want := time.Date(2026, 10, 18, 23, 59, 59, 999000000, zone)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEndOfWeekOnSaturday(t *testing.T) {
	saturday := time.Date(2026, time.October, 17, 23, 0, 0, 0, zone)
	got := EndOfWeek(saturday)
	if got.Day() != 18 || got.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday 18th, got %v", got)
	}
}

func TestEndOfMonthLeapYear(t *testing.T) {
	got := EndOfMonth(time.Date(2028, time.February, 10, 12, 0, 0, 0, zone))
	if got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("expected 29 Feb, got %v", got)
	}
	got = EndOfMonth(time.Date(2026, time.December, 31, 23, 59, 0, 0, zone))
	if got.Year() != 2026 || got.Month() != time.December || got.Day() != 31 {
		t.Fatalf("expected 31 Dec 2026, got %v", got)
	}
}

func TestIsOverdue(t *testing.T) {
	past := wednesday.Add(-time.Minute)
	future := wednesday.Add(time.Minute)

	tests := []struct {
		name     string
		status   models.Status
		deadline *time.Time
		want     bool
	}{
		{"nil deadline", models.StatusToDo, nil, false},
		{"past deadline", models.StatusToDo, &past, true},
		{"blocked past deadline", models.StatusBlocked, &past, true},
		{"future deadline", models.StatusInProgress, &future, false},
		{"done past deadline", models.StatusDone, &past, false},
		{"exactly now", models.StatusToDo, &wednesday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.status, tt.deadline, wednesday); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUrgencyWeight(t *testing.T) {
	prev := 0
	for _, dueBy := range All()[:6] {
		w := UrgencyWeight(dueBy)
		if w <= prev {
			t.Fatalf("expected weights to increase, %s has %d after %d", dueBy, w, prev)
		}
		prev = w
	}
	if got := UrgencyWeight("Someday"); got != UnknownWeight {
		t.Fatalf("expected %d for unknown token, got %d", UnknownWeight, got)
	}
	if got := UrgencyWeight(models.DueByBackburner); got != UnknownWeight {
		t.Fatalf("expected %d for Backburner, got %d", UnknownWeight, got)
	}
}

func TestKnown(t *testing.T) {
	if !Known(models.DueByThisMonth) {
		t.Fatal("expected This Month to be known")
	}
	if Known("this month") {
		t.Fatal("expected lowercase token to be unknown")
	}
}
