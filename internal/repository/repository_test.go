package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/balkashynov/duedeck/internal/db"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/stats"
)

var start = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time           { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// flakyTasks fails writes while broken is set
type flakyTasks struct {
	db.Table[models.Task]
	broken       bool
	beforeInsert func()
}

var errOffline = errors.New("store offline")

func (f *flakyTasks) Insert(ctx context.Context, t *models.Task) error {
	if f.broken {
		return &db.WriteError{Op: "insert", Entity: "task", Err: errOffline}
	}
	if f.beforeInsert != nil {
		f.beforeInsert()
	}
	return f.Table.Insert(ctx, t)
}

func (f *flakyTasks) UpdateByID(ctx context.Context, id uint, fields map[string]any) error {
	if f.broken {
		return &db.WriteError{Op: "update", Entity: "task", ID: id, Err: errOffline}
	}
	return f.Table.UpdateByID(ctx, id, fields)
}

func (f *flakyTasks) DeleteByID(ctx context.Context, id uint) error {
	if f.broken {
		return &db.WriteError{Op: "delete", Entity: "task", ID: id, Err: errOffline}
	}
	return f.Table.DeleteByID(ctx, id)
}

type fixture struct {
	repo    *Repository
	store   *db.Store
	tasks   *flakyTasks
	clock   *clock
	resyncs []ResyncEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open(db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "repo.db")})
	if err != nil {
		t.Fatalf("unexpected error opening db: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	store := db.NewStore(gdb)
	f := &fixture{store: store, clock: &clock{t: start}}
	f.tasks = &flakyTasks{Table: store.Tasks}
	store.Tasks = f.tasks

	f.repo = New(store,
		WithClock(f.clock.now),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithResyncHook(func(ev ResyncEvent) { f.resyncs = append(f.resyncs, ev) }),
	)
	if err := f.repo.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error on refresh: %v", err)
	}
	return f
}

func (f *fixture) create(t *testing.T, in NewTask) models.Task {
	t.Helper()
	if in.Assignee == "" {
		in.Assignee = "alice"
	}
	task, err := f.repo.CreateTask(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error creating task: %v", err)
	}
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, NewTask{Action: "  Write treatment  "})

	if task.Action != "Write treatment" {
		t.Fatalf("expected trimmed action, got %q", task.Action)
	}
	if task.DueBy != models.DueByThisWeek || task.Priority != models.PriorityP2 {
		t.Fatalf("expected This Week/P2, got %s/%s", task.DueBy, task.Priority)
	}
	if task.Status != models.StatusToDo || task.Energy != models.EnergyMedium {
		t.Fatalf("expected To Do/Medium, got %s/%s", task.Status, task.Energy)
	}
	if task.SubmittedOn == nil || !task.SubmittedOn.Equal(start) {
		t.Fatalf("expected submitted_on %v, got %v", start, task.SubmittedOn)
	}
	if task.ID != uint(start.UnixMilli()) {
		t.Fatalf("expected millisecond id, got %d", task.ID)
	}

	// a second task in the same millisecond still gets a fresh id
	second := f.create(t, NewTask{Action: "Second"})
	if second.ID != task.ID+1 {
		t.Fatalf("expected id %d, got %d", task.ID+1, second.ID)
	}
	if got := f.repo.Tasks(); got[0].ID != second.ID {
		t.Fatalf("expected newest task first, got %d", got[0].ID)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   NewTask
		want error
	}{
		{"empty action", NewTask{Assignee: "alice"}, lifecycle.ErrEmptyAction},
		{"no assignee", NewTask{Action: "x"}, ErrAssigneeRequired},
		{"bad due-by", NewTask{Action: "x", Assignee: "a", DueBy: "Someday"}, lifecycle.ErrInvalidDueBy},
		{"bad energy", NewTask{Action: "x", Assignee: "a", Energy: "Max"}, lifecycle.ErrInvalidEnergy},
		{"deleted status", NewTask{Action: "x", Assignee: "a", Status: models.StatusDeleted}, lifecycle.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.repo.CreateTask(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if n := len(f.repo.Tasks()); n != 0 {
		t.Fatalf("expected no tasks after failed creates, got %d", n)
	}
}

func TestAssigneeOptional(t *testing.T) {
	f := newFixture(t)
	repo := New(f.store, WithClock(f.clock.now), WithAssigneeRequired(false))
	if _, err := repo.CreateTask(context.Background(), NewTask{Action: "solo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDueByChangeUpdatesPriorityAndDeadline(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, NewTask{Action: "Pitch", DueBy: models.DueByThisWeek})

	f.clock.advance(30 * time.Minute)
	updated, err := f.repo.UpdateTask(context.Background(), task.ID, lifecycle.SetDueBy{DueBy: models.DueByOneHour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := f.clock.now().Add(time.Hour)
	if updated.Priority != models.PriorityP1 || !updated.TargetDeadline.Equal(want) {
		t.Fatalf("expected P1 due %v, got %s due %v", want, updated.Priority, updated.TargetDeadline)
	}

	// the store saw the same update
	if err := f.repo.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reloaded, _ := f.repo.Task(task.ID)
	if reloaded.Priority != models.PriorityP1 || reloaded.DueBy != models.DueByOneHour {
		t.Fatalf("expected persisted 1 hr/P1, got %s/%s", reloaded.DueBy, reloaded.Priority)
	}
	if reloaded.TargetDeadline == nil || !reloaded.TargetDeadline.Equal(want) {
		t.Fatalf("expected persisted deadline %v, got %v", want, reloaded.TargetDeadline)
	}
}

func TestWriteFailureResyncs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.create(t, NewTask{Action: "Color grade"})

	f.tasks.broken = true
	_, err := f.repo.SetStatus(ctx, task.ID, models.StatusDone)
	if !db.IsWriteError(err) {
		t.Fatalf("expected write error, got %v", err)
	}

	got, _ := f.repo.Task(task.ID)
	if got.Status != models.StatusToDo {
		t.Fatalf("expected optimistic change to be discarded, got %s", got.Status)
	}
	if len(f.resyncs) != 1 {
		t.Fatalf("expected 1 resync event, got %d", len(f.resyncs))
	}
	ev := f.resyncs[0]
	if ev.Op != "update task" || !errors.Is(ev.Cause, errOffline) || ev.Err != nil {
		t.Fatalf("unexpected resync event: %+v", ev)
	}

	// a failed create leaves nothing behind
	if _, err := f.repo.CreateTask(ctx, NewTask{Action: "Lost", Assignee: "bob"}); err == nil {
		t.Fatal("expected create to fail")
	}
	if n := len(f.repo.Tasks()); n != 1 {
		t.Fatalf("expected 1 task after failed create, got %d", n)
	}
	if len(f.resyncs) != 2 {
		t.Fatalf("expected 2 resync events, got %d", len(f.resyncs))
	}
}

func TestOptimisticReadBeforeWrite(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, NewTask{Action: "Edit"})

	updated, err := f.repo.UpdateTask(context.Background(), task.ID,
		lifecycle.SetAction{Action: "Edit v2"},
		lifecycle.SetStatus{Status: models.StatusInProgress},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.repo.Task(task.ID)
	if got.Action != updated.Action || got.Status != models.StatusInProgress {
		t.Fatalf("expected cache to reflect update, got %+v", got)
	}
}

func TestSoftDeleteAndPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.create(t, NewTask{Action: "Keep"})
	trash := f.create(t, NewTask{Action: "Trash"})

	if err := f.repo.Purge(ctx, keep.ID); !errors.Is(err, lifecycle.ErrNotInTrash) {
		t.Fatalf("expected ErrNotInTrash, got %v", err)
	}

	deleted, err := f.repo.SoftDelete(ctx, trash.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.Status != models.StatusDeleted || deleted.DeletionDate == nil {
		t.Fatalf("expected Deleted with deletion date, got %+v", deleted)
	}
	if _, err := f.repo.SetStatus(ctx, trash.ID, models.StatusToDo); !errors.Is(err, lifecycle.ErrTaskDeleted) {
		t.Fatalf("expected trashed task to be terminal, got %v", err)
	}
	if got := f.repo.Trash(stats.TrashFilter{}); len(got) != 1 || got[0].ID != trash.ID {
		t.Fatalf("expected trash to hold task %d, got %+v", trash.ID, got)
	}

	if err := f.repo.Purge(ctx, trash.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.repo.Task(trash.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected purged task to be gone, got %v", err)
	}
}

func TestRefreshPurgesExpiredTrash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.create(t, NewTask{Action: "Old"})
	recent := f.create(t, NewTask{Action: "Recent"})

	if _, err := f.repo.SoftDelete(ctx, old.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.clock.advance(10 * 24 * time.Hour)
	if _, err := f.repo.SoftDelete(ctx, recent.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.clock.advance(21 * 24 * time.Hour)
	if err := f.repo.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.repo.Task(old.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected task deleted 31 days ago to be purged, got %v", err)
	}
	if _, err := f.repo.Task(recent.ID); err != nil {
		t.Fatalf("expected task deleted 21 days ago to stay, got %v", err)
	}
	rows, _ := f.store.Tasks.SelectAll(ctx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row in store, got %d", len(rows))
	}
}

func TestArchiveKeepsStatus(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, NewTask{Action: "Archive me", Status: models.StatusBlocked})

	archived, err := f.repo.Archive(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !archived.IsArchived || archived.Status != models.StatusBlocked {
		t.Fatalf("expected archived Blocked task, got %+v", archived)
	}
	if s := f.repo.Summary(); s.Active != 0 || s.Archived != 1 {
		t.Fatalf("expected no active and 1 archived, got %+v", s)
	}
	if got := f.repo.ArchiveView(); len(got) != 1 {
		t.Fatalf("expected archive view to hold 1 task, got %d", len(got))
	}
}

func TestUnknownTask(t *testing.T) {
	f := newFixture(t)
	if _, err := f.repo.SoftDelete(context.Background(), 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestCreateSurvivesConcurrentRefresh(t *testing.T) {
	f := newFixture(t)
	older := f.create(t, NewTask{Action: "Older"})
	f.clock.advance(time.Minute)

	// a scheduled refresh reloads the cache while the insert is in flight
	f.tasks.beforeInsert = func() {
		if err := f.repo.Refresh(context.Background()); err != nil {
			t.Fatalf("unexpected error on refresh: %v", err)
		}
	}
	task := f.create(t, NewTask{Action: "Raced"})
	f.tasks.beforeInsert = nil

	if _, err := f.repo.Task(task.ID); err != nil {
		t.Fatalf("expected created task in cache, got %v", err)
	}
	tasks := f.repo.Tasks()
	if len(tasks) != 2 || tasks[0].ID != task.ID || tasks[1].ID != older.ID {
		t.Fatalf("expected newest first with both tasks, got %+v", tasks)
	}
}
