// Package lifecycle holds the rules for changing a task: typed field
// changes, soft delete, archival and the purge window for the trash.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/models"
)

// TrashRetention is how long a soft-deleted task stays in the trash
const TrashRetention = 30 * 24 * time.Hour

var (
	ErrTaskDeleted   = errors.New("task is in the trash")
	ErrNotInTrash    = errors.New("task is not in the trash")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDueBy  = errors.New("invalid due-by")
	ErrInvalidEnergy = errors.New("invalid energy level")
	ErrEmptyAction   = errors.New("action cannot be empty")
	ErrNoChanges     = errors.New("no changes given")
)

// Columns is the set of store columns a change wrote, keyed by column name
type Columns map[string]any

// Change is a single validated edit to a task.
// The concrete types below are the only implementations.
type Change interface {
	apply(t *models.Task, now time.Time, cols Columns) error
}

// SetStatus moves a task to one of the working statuses
type SetStatus struct{ Status models.Status }

// SetAction replaces the task description
type SetAction struct{ Action string }

// SetCategory points the task at a category name ("" clears it)
type SetCategory struct{ Category string }

// SetAssignee points the task at a team member name
type SetAssignee struct{ Assignee string }

// SetDueBy changes the due-by token and re-derives priority and deadline
type SetDueBy struct{ DueBy models.DueBy }

// SetEnergy changes the energy level
type SetEnergy struct{ Energy models.Energy }

// SetDate sets or clears the planned day
type SetDate struct{ Date *time.Time }

// SetArchived sets the archive flag without touching status
type SetArchived struct{ Archived bool }

func (c SetStatus) apply(t *models.Task, _ time.Time, cols Columns) error {
	if c.Status == models.StatusDeleted {
		return fmt.Errorf("%w: use soft delete to trash a task", ErrInvalidStatus)
	}
	if !models.IsValidStatus(c.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	t.Status = c.Status
	cols["status"] = c.Status
	return nil
}

func (c SetAction) apply(t *models.Task, _ time.Time, cols Columns) error {
	action := strings.TrimSpace(c.Action)
	if action == "" {
		return ErrEmptyAction
	}
	t.Action = action
	cols["action"] = action
	return nil
}

func (c SetCategory) apply(t *models.Task, _ time.Time, cols Columns) error {
	t.Category = strings.TrimSpace(c.Category)
	cols["category"] = t.Category
	return nil
}

func (c SetAssignee) apply(t *models.Task, _ time.Time, cols Columns) error {
	t.Assignee = strings.TrimSpace(c.Assignee)
	cols["assignee"] = t.Assignee
	return nil
}

func (c SetDueBy) apply(t *models.Task, now time.Time, cols Columns) error {
	if !deadline.Known(c.DueBy) {
		return fmt.Errorf("%w: %q", ErrInvalidDueBy, c.DueBy)
	}
	Rederive(t, c.DueBy, now)
	cols["due_by_type"] = t.DueBy
	cols["priority"] = t.Priority
	cols["target_deadline"] = t.TargetDeadline
	return nil
}

func (c SetEnergy) apply(t *models.Task, _ time.Time, cols Columns) error {
	if !models.IsValidEnergy(c.Energy) {
		return fmt.Errorf("%w: %q", ErrInvalidEnergy, c.Energy)
	}
	t.Energy = c.Energy
	cols["energy"] = c.Energy
	return nil
}

func (c SetDate) apply(t *models.Task, _ time.Time, cols Columns) error {
	t.Date = c.Date
	cols["date"] = c.Date
	return nil
}

func (c SetArchived) apply(t *models.Task, _ time.Time, cols Columns) error {
	t.IsArchived = c.Archived
	cols["is_archived"] = c.Archived
	return nil
}

// Rederive writes dueBy and the priority and deadline derived from it.
// It is the only place those three fields are set.
func Rederive(t *models.Task, dueBy models.DueBy, now time.Time) {
	r := deadline.Derive(dueBy, now)
	t.DueBy = dueBy
	t.Priority = r.Priority
	t.TargetDeadline = r.Deadline
}

// Apply validates and applies changes to a copy of task. It returns the
// updated task and the columns to persist. Nothing is returned on error,
// so a failing change leaves the caller's task untouched.
func Apply(task models.Task, now time.Time, changes ...Change) (models.Task, Columns, error) {
	if len(changes) == 0 {
		return task, nil, ErrNoChanges
	}
	if task.IsDeleted() {
		return task, nil, fmt.Errorf("task #%d: %w", task.ID, ErrTaskDeleted)
	}

	updated := task
	cols := Columns{}
	for _, c := range changes {
		if c == nil {
			continue
		}
		if err := c.apply(&updated, now, cols); err != nil {
			return task, nil, fmt.Errorf("task #%d: %w", task.ID, err)
		}
	}
	if len(cols) == 0 {
		return task, nil, ErrNoChanges
	}
	return updated, cols, nil
}

// SoftDelete moves a task to the trash and stamps the deletion date
func SoftDelete(task models.Task, now time.Time) (models.Task, Columns, error) {
	if task.IsDeleted() {
		return task, nil, fmt.Errorf("task #%d: %w", task.ID, ErrTaskDeleted)
	}
	stamp := now
	task.Status = models.StatusDeleted
	task.DeletionDate = &stamp
	return task, Columns{"status": task.Status, "deletion_date": task.DeletionDate}, nil
}

// Archive hides a task from working views, keeping its status
func Archive(task models.Task, now time.Time) (models.Task, Columns, error) {
	return Apply(task, now, SetArchived{Archived: true})
}

// Unarchive brings an archived task back to working views
func Unarchive(task models.Task, now time.Time) (models.Task, Columns, error) {
	return Apply(task, now, SetArchived{Archived: false})
}

// CanPurge reports whether a task may be removed for good by hand
func CanPurge(task models.Task) error {
	if !task.IsDeleted() {
		return fmt.Errorf("task #%d: %w", task.ID, ErrNotInTrash)
	}
	return nil
}

// Expired reports whether a trashed task has outlived the retention window
func Expired(task models.Task, now time.Time) bool {
	return task.IsDeleted() && task.DeletionDate != nil && now.Sub(*task.DeletionDate) > TrashRetention
}

// PurgeCandidates returns the ids of trashed tasks past the retention window
func PurgeCandidates(tasks []models.Task, now time.Time) []uint {
	var ids []uint
	for _, t := range tasks {
		if Expired(t, now) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// DaysUntilPurge returns the whole days left before a trashed task expires
func DaysUntilPurge(task models.Task, now time.Time) int {
	if !task.IsDeleted() || task.DeletionDate == nil {
		return 0
	}
	left := task.DeletionDate.Add(TrashRetention).Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}
