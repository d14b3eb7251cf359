package commands

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  models.Status
	}{
		{"todo", models.StatusToDo},
		{"To Do", models.StatusToDo},
		{"wip", models.StatusInProgress},
		{"in-progress", models.StatusInProgress},
		{"BLOCKED", models.StatusBlocked},
		{" done ", models.StatusDone},
	}
	for _, tt := range tests {
		got, err := parseStatus(tt.input)
		if err != nil {
			t.Fatalf("parseStatus(%q): unexpected error %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("parseStatus(%q): expected %s, got %s", tt.input, tt.want, got)
		}
	}

	// Deleted is only reachable through rm
	if _, err := parseStatus("deleted"); err == nil {
		t.Fatalf("expected deleted to be rejected")
	}
}

func TestParseTaskID(t *testing.T) {
	id, err := parseTaskID("1760435400000")
	if err != nil || id != 1760435400000 {
		t.Fatalf("expected millisecond id, got %d (%v)", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc", ""} {
		if _, err := parseTaskID(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestSearchRanking(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Action: "Review the deck"},
		{ID: 2, Action: "deck"},
		{ID: 3, Action: "Deck photos"},
		{ID: 4, Action: "Send mail", Category: "Deck"},
		{ID: 5, Action: "Lunch"},
	}
	got := searchTasks(tasks, "deck")
	want := []uint{4, 2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("hit %d: expected #%d, got #%d", i, id, got[i].ID)
		}
	}
}

func newEditCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "edit"}
	addEditFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd
}

func TestEditChanges(t *testing.T) {
	cmd := newEditCommand(t, "--due", "1h", "-a", "bo", "--category", "", "--date", "")
	changes, err := editChanges(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes) != 4 {
		t.Fatalf("expected 4 changes, got %d", len(changes))
	}

	var sawDue, sawAssignee, sawCategory, sawDate bool
	for _, c := range changes {
		switch c := c.(type) {
		case lifecycle.SetDueBy:
			sawDue = c.DueBy == models.DueByOneHour
		case lifecycle.SetAssignee:
			sawAssignee = c.Assignee == "bo"
		case lifecycle.SetCategory:
			sawCategory = c.Category == ""
		case lifecycle.SetDate:
			sawDate = c.Date == nil
		}
	}
	if !sawDue || !sawAssignee || !sawCategory || !sawDate {
		t.Fatalf("unexpected changes %+v", changes)
	}
}

func TestEditChangesRejectsBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"--due", "tomorrow"},
		{"--energy", "extreme"},
		{"--status", "deleted"},
		{"--date", "2026-10-14"},
	} {
		if _, err := editChanges(newEditCommand(t, args...)); err == nil {
			t.Fatalf("expected %v to be rejected", args)
		}
	}
}

func TestEditChangesNoFlags(t *testing.T) {
	changes, err := editChanges(newEditCommand(t))
	if err != nil || len(changes) != 0 {
		t.Fatalf("expected no changes, got %d (%v)", len(changes), err)
	}
}
