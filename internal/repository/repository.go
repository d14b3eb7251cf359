// Package repository keeps the in-memory copy of tasks, team members and
// categories, applies changes optimistically and writes them to the store.
//
// Every mutation updates the cache first, so reads right after a call see
// the new state. If the store write then fails, the cache is thrown away
// and reloaded from the store, a ResyncEvent is emitted, and the write
// error is returned. Writes are never retried.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/balkashynov/duedeck/internal/db"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/stats"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrMemberNotFound   = errors.New("team member not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("name already exists")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrAssigneeRequired = errors.New("assignee is required")
)

// ResyncEvent reports that a failed write made the repository reload
type ResyncEvent struct {
	Op    string    // the mutation whose write failed
	Cause error     // the write error
	Err   error     // reload error, nil when the cache was restored
	At    time.Time
}

// Option configures a Repository
type Option func(*Repository)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// WithResyncHook registers a callback fired after every resync
func WithResyncHook(fn func(ResyncEvent)) Option {
	return func(r *Repository) { r.onResync = fn }
}

// WithAssigneeRequired makes an assignee mandatory on tasks
func WithAssigneeRequired(required bool) Option {
	return func(r *Repository) { r.requireAssignee = required }
}

// Repository is the cached, eventually consistent view of the store
type Repository struct {
	store *db.Store

	mu         sync.RWMutex
	tasks      []models.Task // id descending
	members    []models.TeamMember
	categories []models.Category
	lastID     uint

	now             func() time.Time
	log             *slog.Logger
	onResync        func(ResyncEvent)
	requireAssignee bool
}

// New creates an empty repository over store. Call Refresh to load it.
func New(store *db.Store, opts ...Option) *Repository {
	r := &Repository{
		store:           store,
		now:             time.Now,
		log:             slog.Default(),
		requireAssignee: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the repository's current time
func (r *Repository) Now() time.Time {
	return r.now()
}

// Refresh reloads everything from the store and purges expired trash.
// A failed purge is logged and tried again on the next refresh.
func (r *Repository) Refresh(ctx context.Context) error {
	if err := r.load(ctx); err != nil {
		return err
	}
	if n, err := r.PurgeExpired(ctx); err != nil {
		r.log.Warn("purging expired trash failed", "error", err)
	} else if n > 0 {
		r.log.Info("purged expired trash", "count", n)
	}
	return nil
}

func (r *Repository) load(ctx context.Context) error {
	tasks, err := r.store.Tasks.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	members, err := r.store.Members.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("loading team members: %w", err)
	}
	categories, err := r.store.Categories.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = tasks
	r.members = members
	r.categories = categories
	for _, t := range tasks {
		if t.ID > r.lastID {
			r.lastID = t.ID
		}
	}
	return nil
}

// resync discards local state after a failed write
func (r *Repository) resync(ctx context.Context, op string, cause error) {
	err := r.load(context.WithoutCancel(ctx))
	ev := ResyncEvent{Op: op, Cause: cause, Err: err, At: r.now()}
	if err != nil {
		r.log.Error("store write failed and reload failed", "op", op, "error", cause, "reload_error", err)
	} else {
		r.log.Warn("store write failed, local changes discarded", "op", op, "error", cause)
	}
	if r.onResync != nil {
		r.onResync(ev)
	}
}

// PurgeExpired removes trashed tasks older than the retention window
func (r *Repository) PurgeExpired(ctx context.Context) (int, error) {
	r.mu.RLock()
	ids := lifecycle.PurgeCandidates(r.tasks, r.now())
	r.mu.RUnlock()
	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.store.Tasks.DeleteWhere(ctx, ids); err != nil {
		return 0, err
	}

	gone := make(map[uint]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	r.mu.Lock()
	kept := r.tasks[:0:0]
	for _, t := range r.tasks {
		if !gone[t.ID] {
			kept = append(kept, t)
		}
	}
	r.tasks = kept
	r.mu.Unlock()
	return len(ids), nil
}

// Tasks returns a copy of every cached task, newest first
func (r *Repository) Tasks() []models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Task returns one cached task
func (r *Repository) Task(id uint) (models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.taskIndex(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task #%d: %w", id, ErrTaskNotFound)
	}
	return r.tasks[i], nil
}

// Summary returns the dashboard summary
func (r *Repository) Summary() stats.Summary {
	return stats.Summarize(r.Tasks(), r.now())
}

// Calendar returns scheduled tasks grouped by deadline date
func (r *Repository) Calendar() []stats.CalendarDay {
	return stats.Calendar(r.Tasks(), r.now())
}

// Board returns the priority board, optionally for one category
func (r *Repository) Board(category string) stats.Board {
	return stats.BuildBoard(r.Tasks(), category, r.now())
}

// ArchiveView returns done and archived tasks
func (r *Repository) ArchiveView() []models.Task {
	return stats.ArchiveView(r.Tasks())
}

// Trash returns deleted tasks, most recent first
func (r *Repository) Trash(filter stats.TrashFilter) []models.Task {
	return stats.TrashView(r.Tasks(), filter)
}

// taskIndex must be called with r.mu held
func (r *Repository) taskIndex(id uint) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID hands out millisecond ids, bumped past the highest known one.
// Must be called with r.mu held.
func (r *Repository) nextID(now time.Time) uint {
	id := uint(now.UnixMilli())
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func sortMembers(members []models.TeamMember) {
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
}

func sortCategories(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
}
