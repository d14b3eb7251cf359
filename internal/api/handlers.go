package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/logger"
	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/stats"
)

// Handler serves the task API from one repository
type Handler struct {
	repo *repository.Repository
}

// NewHandler creates a handler over repo
func NewHandler(repo *repository.Repository) *Handler {
	return &Handler{repo: repo}
}

// TaskResponse is a task plus the values derived from it at request time
type TaskResponse struct {
	models.Task
	Overdue  bool `json:"overdue"`
	DaysOpen int  `json:"days_open"`
	PurgeIn  *int `json:"purge_in_days,omitempty"`
}

func (h *Handler) present(t models.Task, now time.Time) TaskResponse {
	r := TaskResponse{
		Task:     t,
		Overdue:  deadline.TaskOverdue(t, now),
		DaysOpen: stats.DaysOpen(t, now),
	}
	if t.IsDeleted() {
		days := lifecycle.DaysUntilPurge(t, now)
		r.PurgeIn = &days
	}
	return r
}

func (h *Handler) presentAll(tasks []models.Task) []TaskResponse {
	now := h.repo.Now()
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = h.present(t, now)
	}
	return out
}

func taskID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid task ID")
	}
	return uint(id), nil
}

// ListTasks returns tasks for a view: active (default), all, archive or trash
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	var tasks []models.Task
	switch view := c.Query("view", "active"); view {
	case "active":
		tasks = stats.Active(h.repo.Tasks())
	case "all":
		tasks = h.repo.Tasks()
	case "archive":
		tasks = h.repo.ArchiveView()
	case "trash":
		filter, err := trashFilter(c)
		if err != nil {
			return err
		}
		tasks = h.repo.Trash(filter)
	default:
		return badRequestResponse(c, "Unknown view "+view)
	}

	assignee, category := c.Query("assignee"), c.Query("category")
	if assignee != "" || category != "" {
		filtered := tasks[:0:0]
		for _, t := range tasks {
			if (assignee == "" || t.Assignee == assignee) && (category == "" || t.Category == category) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	return successResponse(c, h.presentAll(tasks))
}

func trashFilter(c *fiber.Ctx) (stats.TrashFilter, error) {
	var f stats.TrashFilter
	for _, q := range []struct {
		key string
		dst **time.Time
	}{{"since", &f.Since}, {"until", &f.Until}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "Invalid "+q.key+", expected RFC3339")
		}
		*q.dst = &t
	}
	return f, nil
}

// GetTask returns one task
func (h *Handler) GetTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.repo.Task(id)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, h.present(task, h.repo.Now()))
}

// CreateTask creates a task
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	task, err := h.repo.CreateTask(ctx, req.toNewTask())
	if err != nil {
		return domainErrorResponse(c, err)
	}
	logger.WithRequestID(ctx).Info("task created", "task_id", task.ID, "priority", task.Priority)
	return createdResponse(c, h.present(task, h.repo.Now()))
}

// UpdateTask applies a partial update
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req PatchTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	task, err := h.repo.UpdateTask(c.UserContext(), id, req.changes()...)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, h.present(task, h.repo.Now()))
}

// DeleteTask moves a task to the trash
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	return h.transition(c, h.repo.SoftDelete)
}

// ArchiveTask hides a task from working views
func (h *Handler) ArchiveTask(c *fiber.Ctx) error {
	return h.transition(c, h.repo.Archive)
}

// UnarchiveTask restores an archived task
func (h *Handler) UnarchiveTask(c *fiber.Ctx) error {
	return h.transition(c, h.repo.Unarchive)
}

func (h *Handler) transition(c *fiber.Ctx, fn func(context.Context, uint) (models.Task, error)) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := fn(c.UserContext(), id)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, h.present(task, h.repo.Now()))
}

// PurgeTask removes a trashed task for good
func (h *Handler) PurgeTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.repo.Purge(c.UserContext(), id); err != nil {
		return domainErrorResponse(c, err)
	}
	logger.WithRequestID(c.UserContext()).Info("task purged", "task_id", id)
	return noContentResponse(c)
}

// Stats returns the dashboard summary
func (h *Handler) Stats(c *fiber.Ctx) error {
	return successResponse(c, h.repo.Summary())
}

type calendarDay struct {
	Date  string         `json:"date"`
	Tasks []TaskResponse `json:"tasks"`
}

// Calendar returns scheduled tasks by deadline date
func (h *Handler) Calendar(c *fiber.Ctx) error {
	days := h.repo.Calendar()
	out := make([]calendarDay, len(days))
	for i, d := range days {
		out[i] = calendarDay{Date: d.Key(), Tasks: h.presentAll(d.Tasks)}
	}
	return successResponse(c, out)
}

type boardColumn struct {
	Title string         `json:"title"`
	Tasks []TaskResponse `json:"tasks"`
}

type boardResponse struct {
	Category string        `json:"category,omitempty"`
	Columns  []boardColumn `json:"columns"`
}

func (h *Handler) board(category string) boardResponse {
	b := h.repo.Board(category)
	resp := boardResponse{Category: b.Category}
	for _, col := range b.Columns() {
		resp.Columns = append(resp.Columns, boardColumn{Title: col.Title, Tasks: h.presentAll(col.Tasks)})
	}
	return resp
}

// Board returns the priority board, optionally for ?category=
func (h *Handler) Board(c *fiber.Ctx) error {
	return successResponse(c, h.board(c.Query("category")))
}

// CategoryBoard returns the board for the category named by :slug
func (h *Handler) CategoryBoard(c *fiber.Ctx) error {
	category, err := h.repo.CategoryBySlug(c.Params("slug"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, h.board(category.Name))
}

// Refresh reloads the cache from the store and purges expired trash
func (h *Handler) Refresh(c *fiber.Ctx) error {
	if err := h.repo.Refresh(c.UserContext()); err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, h.repo.Summary())
}

// Health reports liveness
func (h *Handler) Health(c *fiber.Ctx) error {
	return successResponse(c, fiber.Map{"status": "ok", "time": h.repo.Now()})
}
