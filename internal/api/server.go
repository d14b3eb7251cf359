// Package api exposes the task repository over a JSON HTTP API.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/balkashynov/duedeck/internal/repository"
)

// NewApp builds the fiber app with middleware and routes over repo
func NewApp(repo *repository.Repository) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "duedeck",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
		UnescapePath:          true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	app.Use(requestID())
	app.Use(accessLog())

	SetupRoutes(app, NewHandler(repo))
	return app
}

// SetupRoutes registers every endpoint under /api
func SetupRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)
	api.Post("/refresh", h.Refresh)
	api.Get("/stats", h.Stats)
	api.Get("/calendar", h.Calendar)
	api.Get("/board", h.Board)

	tasks := api.Group("/tasks")
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/:id", h.GetTask)
	tasks.Patch("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)
	tasks.Post("/:id/archive", h.ArchiveTask)
	tasks.Post("/:id/unarchive", h.UnarchiveTask)
	tasks.Delete("/:id/purge", h.PurgeTask)

	members := api.Group("/members")
	members.Get("/", h.ListMembers)
	members.Post("/", h.AddMember)
	members.Put("/:name", h.RenameMember)
	members.Delete("/:name", h.RemoveMember)

	categories := api.Group("/categories")
	categories.Get("/", h.ListCategories)
	categories.Post("/", h.AddCategory)
	categories.Get("/:slug/board", h.CategoryBoard)
	categories.Put("/:slug", h.RenameCategory)
	categories.Delete("/:slug", h.RemoveCategory)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
func Serve(ctx context.Context, app *fiber.App, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- app.Listen(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return app.ShutdownWithTimeout(5 * time.Second)
	}
}
