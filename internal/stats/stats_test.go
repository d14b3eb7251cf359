package stats

import (
	"testing"
	"time"

	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
)

var (
	zone = time.FixedZone("UTC-5", -5*60*60)
	now  = time.Date(2026, time.October, 14, 9, 0, 0, 0, zone)
)

func daysAgo(n int) *time.Time {
	t := now.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func newTask(id uint, dueBy models.DueBy, assignee string) models.Task {
	task := models.Task{
		ID:        id,
		CreatedAt: now.Add(-72 * time.Hour),
		Status:    models.StatusToDo,
		Action:    "task",
		Assignee:  assignee,
	}
	lifecycle.Rederive(&task, dueBy, now)
	return task
}

func TestCountPriorities(t *testing.T) {
	done := newTask(5, models.DueByOneHour, "a")
	done.Status = models.StatusDone
	archived := newTask(6, models.DueByOneHour, "a")
	archived.IsArchived = true
	trashed := newTask(7, models.DueByToday, "a")
	trashed.Status = models.StatusDeleted
	odd := newTask(8, models.DueByToday, "a")
	odd.Priority = "P3 (Normal)"

	tasks := []models.Task{
		newTask(1, models.DueByOneHour, "a"),
		newTask(2, models.DueByThisWeek, "a"),
		newTask(3, models.DueByThisMonth, "a"),
		newTask(4, "", "a"),
		done, archived, trashed, odd,
	}

	got := CountPriorities(tasks)
	want := PriorityCounts{P1: 1, P2: 1, P3: 1, Backburner: 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.Total() != len(Active(tasks)) {
		t.Fatalf("expected total %d to match active count %d", got.Total(), len(Active(tasks)))
	}
}

func TestCompletedInWindow(t *testing.T) {
	old := newTask(1, models.DueByToday, "a")
	old.Status = models.StatusDone
	old.DeletionDate = daysAgo(8)

	recent := newTask(2, models.DueByToday, "a")
	recent.Status = models.StatusDone
	recent.DeletionDate = daysAgo(3)

	// deletion date wins over a recent submission
	shadowed := newTask(3, models.DueByToday, "a")
	shadowed.Status = models.StatusDone
	shadowed.SubmittedOn = daysAgo(1)
	shadowed.DeletionDate = daysAgo(10)

	submitted := newTask(4, models.DueByToday, "a")
	submitted.Status = models.StatusDone
	submitted.SubmittedOn = daysAgo(2)

	open := newTask(5, models.DueByToday, "a")
	open.DeletionDate = daysAgo(1)

	tasks := []models.Task{old, recent, shadowed, submitted, open}
	if got := CompletedInWindow(tasks, now); got != 2 {
		t.Fatalf("expected 2 completed in window, got %d", got)
	}
}

func TestCompletionFallsBackToCreatedThenDate(t *testing.T) {
	created := models.Task{ID: 1, Status: models.StatusDone, CreatedAt: *daysAgo(2)}
	if !CompletedRecently(created, now) {
		t.Fatal("expected created timestamp to be used")
	}
	dated := models.Task{ID: 2, Status: models.StatusDone, Date: daysAgo(1)}
	if !CompletedRecently(dated, now) {
		t.Fatal("expected planned date to be used as last resort")
	}
	bare := models.Task{ID: 3, Status: models.StatusDone}
	if CompletedRecently(bare, now) {
		t.Fatal("expected task without timestamps to be excluded")
	}
}

func TestOverdueCount(t *testing.T) {
	late := newTask(1, models.DueByOneHour, "a")
	past := now.Add(-time.Minute)
	late.TargetDeadline = &past

	lateDone := late
	lateDone.ID = 2
	lateDone.Status = models.StatusDone

	lateArchived := late
	lateArchived.ID = 3
	lateArchived.IsArchived = true

	backburner := newTask(4, models.DueByBackburner, "a")

	tasks := []models.Task{late, lateDone, lateArchived, backburner, newTask(5, models.DueByToday, "a")}
	if got := OverdueCount(tasks, now); got != 1 {
		t.Fatalf("expected 1 overdue, got %d", got)
	}
}

func TestArchiveAndTrashViews(t *testing.T) {
	done := newTask(1, models.DueByToday, "a")
	done.Status = models.StatusDone
	archived := newTask(2, models.DueByToday, "a")
	archived.IsArchived = true
	first := newTask(3, models.DueByToday, "a")
	first.Status = models.StatusDeleted
	first.DeletionDate = daysAgo(5)
	second := newTask(4, models.DueByToday, "a")
	second.Status = models.StatusDeleted
	second.DeletionDate = daysAgo(1)

	tasks := []models.Task{done, archived, first, second, newTask(5, models.DueByToday, "a")}

	arch := ArchiveView(tasks)
	if len(arch) != 2 || arch[0].ID != 2 || arch[1].ID != 1 {
		t.Fatalf("expected archive [2 1], got %v", ids(arch))
	}

	trash := TrashView(tasks, TrashFilter{})
	if len(trash) != 2 || trash[0].ID != 4 || trash[1].ID != 3 {
		t.Fatalf("expected trash [4 3], got %v", ids(trash))
	}

	since := daysAgo(2)
	trash = TrashView(tasks, TrashFilter{Since: since})
	if len(trash) != 1 || trash[0].ID != 4 {
		t.Fatalf("expected filtered trash [4], got %v", ids(trash))
	}
}

func TestCalendarOrdering(t *testing.T) {
	// same local day, different urgency and assignees
	a := newTask(1, models.DueByThisMonth, "bob")
	b := newTask(2, models.DueByToday, "bob")
	c := newTask(3, models.DueByThisMonth, "alice")
	day := time.Date(2026, time.October, 20, 12, 0, 0, 0, zone)
	for _, task := range []*models.Task{&a, &b, &c} {
		d := day
		task.TargetDeadline = &d
	}

	later := newTask(4, models.DueByThisMonth, "alice")
	backburner := newTask(5, "", "alice")
	done := newTask(6, models.DueByToday, "alice")
	done.Status = models.StatusDone

	days := Calendar([]models.Task{a, b, c, later, backburner, done}, now)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Key() != "2026-10-20" {
		t.Fatalf("expected first bucket 2026-10-20, got %s", days[0].Key())
	}
	if got := ids(days[0].Tasks); len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("expected order [3 2 1], got %v", got)
	}
	if days[1].Key() != "2026-10-31" {
		t.Fatalf("expected second bucket 2026-10-31, got %s", days[1].Key())
	}
}

func TestCalendarUsesLocalDate(t *testing.T) {
	task := newTask(1, models.DueByOneHour, "a")
	// 02:00 UTC on the 16th is still the 15th in UTC-5
	d := time.Date(2026, time.October, 16, 2, 0, 0, 0, time.UTC)
	task.TargetDeadline = &d

	days := Calendar([]models.Task{task}, now)
	if len(days) != 1 || days[0].Key() != "2026-10-15" {
		t.Fatalf("expected bucket 2026-10-15, got %+v", days)
	}
}

func TestBuildBoard(t *testing.T) {
	films := newTask(1, models.DueByOneHour, "a")
	films.Category = "Films"
	saas := newTask(2, models.DueByThisMonth, "a")
	saas.Category = "SaaS"
	doneFilms := newTask(3, models.DueByToday, "a")
	doneFilms.Category = "Films"
	doneFilms.Status = models.StatusDone
	doneFilms.SubmittedOn = daysAgo(1)
	backburner := newTask(4, "", "a")
	backburner.Category = "Films"

	tasks := []models.Task{films, saas, doneFilms, backburner}

	all := BuildBoard(tasks, "", now)
	if len(all.P1) != 1 || len(all.P3) != 1 || len(all.Backburner) != 1 || len(all.Completed) != 1 {
		t.Fatalf("unexpected board: %+v", all)
	}

	filtered := BuildBoard(tasks, "Films", now)
	if len(filtered.P3) != 0 || len(filtered.P1) != 1 || len(filtered.Completed) != 1 {
		t.Fatalf("unexpected filtered board: %+v", filtered)
	}
	if len(filtered.Columns()) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(filtered.Columns()))
	}
}

func TestSummarize(t *testing.T) {
	blocked := newTask(1, models.DueByToday, "a")
	blocked.Status = models.StatusBlocked
	trashed := newTask(2, models.DueByToday, "a")
	trashed.Status = models.StatusDeleted
	trashed.DeletionDate = daysAgo(1)

	s := Summarize([]models.Task{blocked, trashed, newTask(3, models.DueByThisMonth, "a")}, now)
	if s.Active != 2 || s.Blocked != 1 || s.Trashed != 1 || s.DueToday != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDaysOpen(t *testing.T) {
	task := models.Task{CreatedAt: now.Add(-36 * time.Hour)}
	if got := DaysOpen(task, now); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
	if got := DaysOpen(models.Task{}, now); got != 0 {
		t.Fatalf("expected 0 for zero created time, got %d", got)
	}
}

func ids(tasks []models.Task) []uint {
	out := make([]uint, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
