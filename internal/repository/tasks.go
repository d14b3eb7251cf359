package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
)

// NewTask holds the data needed to create a task
type NewTask struct {
	Action   string
	Category string
	Assignee string
	DueBy    models.DueBy  // defaults to This Week
	Energy   models.Energy // defaults to Medium
	Status   models.Status // defaults to To Do
	Date     *time.Time
}

func (r *Repository) buildTask(in NewTask, now time.Time) (models.Task, error) {
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return models.Task{}, lifecycle.ErrEmptyAction
	}
	assignee := strings.TrimSpace(in.Assignee)
	if r.requireAssignee && assignee == "" {
		return models.Task{}, ErrAssigneeRequired
	}

	dueBy := in.DueBy
	if dueBy == "" {
		dueBy = models.DefaultDueBy
	}
	if !deadline.Known(dueBy) {
		return models.Task{}, fmt.Errorf("%w: %q", lifecycle.ErrInvalidDueBy, dueBy)
	}

	energy := in.Energy
	if energy == "" {
		energy = models.EnergyMedium
	}
	if !models.IsValidEnergy(energy) {
		return models.Task{}, fmt.Errorf("%w: %q", lifecycle.ErrInvalidEnergy, energy)
	}

	status := in.Status
	if status == "" {
		status = models.StatusToDo
	}
	if status == models.StatusDeleted || !models.IsValidStatus(status) {
		return models.Task{}, fmt.Errorf("%w: %q", lifecycle.ErrInvalidStatus, status)
	}

	submitted := now
	task := models.Task{
		CreatedAt:   now,
		Status:      status,
		Action:      action,
		Category:    strings.TrimSpace(in.Category),
		Assignee:    assignee,
		Energy:      energy,
		SubmittedOn: &submitted,
		Date:        in.Date,
	}
	lifecycle.Rederive(&task, dueBy, now)
	return task, nil
}

// CreateTask validates, derives and stores a new task
func (r *Repository) CreateTask(ctx context.Context, in NewTask) (models.Task, error) {
	now := r.now()
	task, err := r.buildTask(in, now)
	if err != nil {
		return models.Task{}, err
	}
	if task.Category != "" {
		if _, err := r.EnsureCategory(ctx, task.Category); err != nil {
			return models.Task{}, err
		}
	}

	r.mu.Lock()
	task.ID = r.nextID(now)
	r.tasks = append([]models.Task{task}, r.tasks...)
	r.mu.Unlock()

	stored := task
	if err := r.store.Tasks.Insert(ctx, &stored); err != nil {
		r.resync(ctx, "create task", err)
		return models.Task{}, err
	}

	r.mu.Lock()
	if i := r.taskIndex(stored.ID); i >= 0 {
		r.tasks[i] = stored
	} else {
		// a refresh replaced the cache before the insert landed
		r.insertCached(stored)
	}
	r.mu.Unlock()

	r.log.Debug("task created", "id", stored.ID, "priority", stored.Priority, "due_by", stored.DueBy)
	return stored, nil
}

// insertCached keeps r.tasks in id-descending order.
// Must be called with r.mu held.
func (r *Repository) insertCached(t models.Task) {
	i := sort.Search(len(r.tasks), func(i int) bool { return r.tasks[i].ID < t.ID })
	r.tasks = append(r.tasks, models.Task{})
	copy(r.tasks[i+1:], r.tasks[i:])
	r.tasks[i] = t
	if t.ID > r.lastID {
		r.lastID = t.ID
	}
}

type taskTransition func(models.Task, time.Time) (models.Task, lifecycle.Columns, error)

// mutateTask applies fn to the cached task, then writes the changed columns
func (r *Repository) mutateTask(ctx context.Context, op string, id uint, fn taskTransition) (models.Task, error) {
	now := r.now()

	r.mu.Lock()
	i := r.taskIndex(id)
	if i < 0 {
		r.mu.Unlock()
		return models.Task{}, fmt.Errorf("task #%d: %w", id, ErrTaskNotFound)
	}
	updated, cols, err := fn(r.tasks[i], now)
	if err == nil && r.requireAssignee && updated.Assignee == "" && r.tasks[i].Assignee != "" {
		err = fmt.Errorf("task #%d: %w", id, ErrAssigneeRequired)
	}
	if err != nil {
		r.mu.Unlock()
		return models.Task{}, err
	}
	r.tasks[i] = updated
	r.mu.Unlock()

	if err := r.store.Tasks.UpdateByID(ctx, id, cols); err != nil {
		r.resync(ctx, op, err)
		return models.Task{}, err
	}
	return updated, nil
}

// UpdateTask applies typed changes to a task in a single store update.
// Changing the due-by re-derives priority and deadline in the same write.
// A category that does not exist yet is created.
func (r *Repository) UpdateTask(ctx context.Context, id uint, changes ...lifecycle.Change) (models.Task, error) {
	updated, err := r.mutateTask(ctx, "update task", id, func(t models.Task, now time.Time) (models.Task, lifecycle.Columns, error) {
		return lifecycle.Apply(t, now, changes...)
	})
	if err != nil {
		return models.Task{}, err
	}
	for _, c := range changes {
		if _, ok := c.(lifecycle.SetCategory); ok && updated.Category != "" {
			if _, err := r.EnsureCategory(ctx, updated.Category); err != nil {
				return models.Task{}, err
			}
			break
		}
	}
	return updated, nil
}

// SetStatus is UpdateTask with a single status change
func (r *Repository) SetStatus(ctx context.Context, id uint, status models.Status) (models.Task, error) {
	return r.UpdateTask(ctx, id, lifecycle.SetStatus{Status: status})
}

// SoftDelete moves a task to the trash
func (r *Repository) SoftDelete(ctx context.Context, id uint) (models.Task, error) {
	return r.mutateTask(ctx, "delete task", id, lifecycle.SoftDelete)
}

// Archive hides a task from working views
func (r *Repository) Archive(ctx context.Context, id uint) (models.Task, error) {
	return r.mutateTask(ctx, "archive task", id, lifecycle.Archive)
}

// Unarchive brings an archived task back
func (r *Repository) Unarchive(ctx context.Context, id uint) (models.Task, error) {
	return r.mutateTask(ctx, "unarchive task", id, lifecycle.Unarchive)
}

// Purge removes a trashed task for good
func (r *Repository) Purge(ctx context.Context, id uint) error {
	r.mu.Lock()
	i := r.taskIndex(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("task #%d: %w", id, ErrTaskNotFound)
	}
	if err := lifecycle.CanPurge(r.tasks[i]); err != nil {
		r.mu.Unlock()
		return err
	}
	r.tasks = append(r.tasks[:i:i], r.tasks[i+1:]...)
	r.mu.Unlock()

	if err := r.store.Tasks.DeleteByID(ctx, id); err != nil {
		r.resync(ctx, "purge task", err)
		return err
	}
	return nil
}
