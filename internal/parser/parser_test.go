package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/duedeck/internal/models"
)

func TestParseDueBy(t *testing.T) {
	tests := []struct {
		input string
		want  models.DueBy
	}{
		{"1 hr", models.DueByOneHour},
		{"1h", models.DueByOneHour},
		{"6HRS", models.DueBySixHours},
		{"6_hrs", models.DueBySixHours},
		{"Today", models.DueByToday},
		{"3d", models.DueByThreeDays},
		{"3-days", models.DueByThreeDays},
		{"This Week", models.DueByThisWeek},
		{"week", models.DueByThisWeek},
		{"  this   month ", models.DueByThisMonth},
		{"someday", models.DueByBackburner},
		{"Backburner", models.DueByBackburner},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDueBy(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseDueByRejects(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2 days", "next year"} {
		if _, err := ParseDueBy(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ParsedTask
	}{
		{
			name:  "plain",
			input: "Write the treatment",
			want:  ParsedTask{Action: "Write the treatment"},
		},
		{
			name:  "everything",
			input: "Ship deck @alice #Films due:today !high",
			want: ParsedTask{
				Action:   "Ship deck",
				Assignee: "alice",
				Category: "Films",
				DueBy:    models.DueByToday,
				Energy:   models.EnergyHigh,
			},
		},
		{
			name:  "quoted due-by mid sentence",
			input: `Call due:"this week" the lab @bo`,
			want:  ParsedTask{Action: "Call the lab", Assignee: "bo", DueBy: models.DueByThisWeek},
		},
		{
			name:  "email is not an assignee",
			input: "Reply to jo@example.com",
			want:  ParsedTask{Action: "Reply to jo@example.com"},
		},
		{
			name:  "trailing bang stays in the action",
			input: "Ship it!",
			want:  ParsedTask{Action: "Ship it!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTitle(tt.input)
			if len(got.Errors) != 0 {
				t.Fatalf("unexpected errors: %v", got.Errors)
			}
			if got.Action != tt.want.Action || got.Assignee != tt.want.Assignee ||
				got.Category != tt.want.Category || got.DueBy != tt.want.DueBy || got.Energy != tt.want.Energy {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseTitleCollectsErrors(t *testing.T) {
	got := ParseTitle("Fix rig due:tomorrow !extreme")
	if got.Action != "Fix rig" {
		t.Fatalf("expected tokens stripped from action, got %q", got.Action)
	}
	if len(got.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", got.Errors)
	}
	if got.DueBy != "" || got.Energy != "" {
		t.Fatalf("expected invalid tokens to be left unset, got %q/%q", got.DueBy, got.Energy)
	}
}

func TestFormatDeadline(t *testing.T) {
	now := time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name     string
		deadline *time.Time
		want     string
	}{
		{"none", nil, ""},
		{"overdue", at(-time.Minute), "OVERDUE (14/10/2026)"},
		{"today", at(2 * time.Hour), "Due today 12:00"},
		{"tomorrow", at(24 * time.Hour), "Due tomorrow (15/10/2026)"},
		{"this week", at(3 * 24 * time.Hour), "Due 17/10/2026 (in 3 days)"},
		{"later", at(20 * 24 * time.Hour), "Due 03/11/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDeadline(tt.deadline, now)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDueByChoices(t *testing.T) {
	if got := DueByChoices(); !strings.HasPrefix(got, "1 hr, 6 hrs, Today") {
		t.Fatalf("expected choices in urgency order, got %q", got)
	}
}
