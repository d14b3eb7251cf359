// Package stats derives counts and grouped views from a task collection.
// Every function is pure: the same tasks and the same now give the same output.
package stats

import (
	"sort"
	"time"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/models"
)

// CompletedWindow is how far back a Done task counts as recently completed
const CompletedWindow = 7 * 24 * time.Hour

// PriorityCounts holds active task counts per priority tier
type PriorityCounts struct {
	P1         int `json:"p1"`
	P2         int `json:"p2"`
	P3         int `json:"p3"`
	Backburner int `json:"backburner"`
}

// Total returns the sum over all tiers
func (c PriorityCounts) Total() int {
	return c.P1 + c.P2 + c.P3 + c.Backburner
}

// Summary is the dashboard view of a task collection
type Summary struct {
	Priorities PriorityCounts `json:"priorities"`
	Active     int            `json:"active"`
	Overdue    int            `json:"overdue"`
	DueToday   int            `json:"due_today"`
	Blocked    int            `json:"blocked"`
	Completed  int            `json:"completed_7d"`
	Archived   int            `json:"archived"`
	Trashed    int            `json:"trashed"`
}

// Tier buckets a priority, treating anything unrecognised as Backburner
func Tier(p models.Priority) models.Priority {
	switch p {
	case models.PriorityP1, models.PriorityP2, models.PriorityP3:
		return p
	default:
		return models.PriorityBackburner
	}
}

// Active returns tasks that are not done, not deleted and not archived
func Active(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// CountPriorities counts active tasks per priority tier
func CountPriorities(tasks []models.Task) PriorityCounts {
	var c PriorityCounts
	for _, t := range tasks {
		if !t.IsActive() {
			continue
		}
		switch Tier(t.Priority) {
		case models.PriorityP1:
			c.P1++
		case models.PriorityP2:
			c.P2++
		case models.PriorityP3:
			c.P3++
		default:
			c.Backburner++
		}
	}
	return c
}

// CompletedRecently reports whether a Done task was completed within the window
func CompletedRecently(t models.Task, now time.Time) bool {
	if !t.IsDone() {
		return false
	}
	ts := t.CompletionTime()
	if ts == nil {
		return false
	}
	return !ts.Before(now.Add(-CompletedWindow))
}

// CompletedInWindow counts Done tasks completed in the last seven days
func CompletedInWindow(tasks []models.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if CompletedRecently(t, now) {
			n++
		}
	}
	return n
}

// OverdueCount counts active tasks past their deadline
func OverdueCount(tasks []models.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.IsActive() && deadline.TaskOverdue(t, now) {
			n++
		}
	}
	return n
}

// DueToday counts active tasks whose deadline falls on now's calendar day
func DueToday(tasks []models.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.IsActive() && t.TargetDeadline != nil && sameDay(t.TargetDeadline.In(now.Location()), now) {
			n++
		}
	}
	return n
}

// Summarize builds the dashboard summary
func Summarize(tasks []models.Task, now time.Time) Summary {
	s := Summary{
		Priorities: CountPriorities(tasks),
		Overdue:    OverdueCount(tasks, now),
		DueToday:   DueToday(tasks, now),
		Completed:  CompletedInWindow(tasks, now),
	}
	s.Active = s.Priorities.Total()
	for _, t := range tasks {
		switch {
		case t.IsDeleted():
			s.Trashed++
		case t.IsArchived:
			s.Archived++
		}
		if t.IsActive() && t.Status == models.StatusBlocked {
			s.Blocked++
		}
	}
	return s
}

// DaysOpen returns the whole days since the task was created, rounded up
func DaysOpen(t models.Task, now time.Time) int {
	if t.CreatedAt.IsZero() {
		return 0
	}
	d := now.Sub(t.CreatedAt)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ArchiveView returns Done or archived tasks, newest id first
func ArchiveView(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.IsDone() || t.IsArchived {
			out = append(out, t)
		}
	}
	sortByIDDesc(out)
	return out
}

// TrashFilter restricts the trash view to a deletion date range
type TrashFilter struct {
	Since *time.Time
	Until *time.Time
}

func (f TrashFilter) match(t models.Task) bool {
	if f.Since == nil && f.Until == nil {
		return true
	}
	if t.DeletionDate == nil {
		return false
	}
	if f.Since != nil && t.DeletionDate.Before(*f.Since) {
		return false
	}
	if f.Until != nil && t.DeletionDate.After(*f.Until) {
		return false
	}
	return true
}

// TrashView returns deleted tasks, most recently deleted first
func TrashView(tasks []models.Task, filter TrashFilter) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.IsDeleted() && filter.match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DeletionDate, out[j].DeletionDate
		switch {
		case a == nil && b == nil:
			return out[i].ID > out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return out[i].ID > out[j].ID
		}
	})
	return out
}

// CalendarDay is one date bucket of the calendar view
type CalendarDay struct {
	Date  time.Time     `json:"date"`
	Tasks []models.Task `json:"tasks"`
}

// Key returns the bucket date as YYYY-MM-DD
func (d CalendarDay) Key() string {
	return d.Date.Format(time.DateOnly)
}

// Calendar groups scheduled active tasks by the local date of their deadline.
// Backburner tasks and tasks without a deadline are left out. Buckets are in
// date order; tasks inside a bucket are ordered by assignee, then urgency.
func Calendar(tasks []models.Task, now time.Time) []CalendarDay {
	loc := now.Location()
	buckets := map[string]*CalendarDay{}

	for _, t := range tasks {
		if !t.IsActive() || Tier(t.Priority) == models.PriorityBackburner || t.TargetDeadline == nil {
			continue
		}
		local := t.TargetDeadline.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		key := day.Format(time.DateOnly)
		b, ok := buckets[key]
		if !ok {
			b = &CalendarDay{Date: day}
			buckets[key] = b
		}
		b.Tasks = append(b.Tasks, t)
	}

	days := make([]CalendarDay, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.Tasks, func(i, j int) bool {
			a, c := b.Tasks[i], b.Tasks[j]
			if a.Assignee != c.Assignee {
				return a.Assignee < c.Assignee
			}
			wa, wc := deadline.UrgencyWeight(a.DueBy), deadline.UrgencyWeight(c.DueBy)
			if wa != wc {
				return wa < wc
			}
			return a.ID < c.ID
		})
		days = append(days, *b)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// Board is the priority column view of the task collection
type Board struct {
	Category   string        `json:"category,omitempty"`
	P1         []models.Task `json:"p1"`
	P2         []models.Task `json:"p2"`
	P3         []models.Task `json:"p3"`
	Backburner []models.Task `json:"backburner"`
	Completed  []models.Task `json:"completed_7d"`
}

// Columns returns the board columns in display order with their titles
func (b Board) Columns() []Column {
	return []Column{
		{Title: "P1", Tasks: b.P1},
		{Title: "P2", Tasks: b.P2},
		{Title: "P3", Tasks: b.P3},
		{Title: "Backburner", Tasks: b.Backburner},
		{Title: "Completed (7d)", Tasks: b.Completed},
	}
}

// Column is a titled board column
type Column struct {
	Title string
	Tasks []models.Task
}

// BuildBoard splits tasks into priority columns plus recently completed ones.
// A non-empty category restricts every column to that category.
func BuildBoard(tasks []models.Task, category string, now time.Time) Board {
	b := Board{Category: category}
	for _, t := range tasks {
		if category != "" && t.Category != category {
			continue
		}
		if CompletedRecently(t, now) {
			b.Completed = append(b.Completed, t)
			continue
		}
		if !t.IsActive() {
			continue
		}
		switch Tier(t.Priority) {
		case models.PriorityP1:
			b.P1 = append(b.P1, t)
		case models.PriorityP2:
			b.P2 = append(b.P2, t)
		case models.PriorityP3:
			b.P3 = append(b.P3, t)
		default:
			b.Backburner = append(b.Backburner, t)
		}
	}
	return b
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortByIDDesc(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ID > tasks[j].ID
	})
}
