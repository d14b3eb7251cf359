package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"github.com/balkashynov/duedeck/internal/logger"
	"github.com/balkashynov/duedeck/internal/models"
)

type categoryResponse struct {
	models.Category
	Slug string `json:"slug"`
}

func presentCategory(c models.Category) categoryResponse {
	return categoryResponse{Category: c, Slug: slug.Make(c.Name)}
}

// ListMembers returns the roster
func (h *Handler) ListMembers(c *fiber.Ctx) error {
	return successResponse(c, h.repo.Members())
}

// AddMember adds a team member
func (h *Handler) AddMember(c *fiber.Ctx) error {
	var req NameRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	member, err := h.repo.AddMember(c.UserContext(), req.Name)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return createdResponse(c, member)
}

// RenameMember renames :name and every task assigned to them
func (h *Handler) RenameMember(c *fiber.Ctx) error {
	var req NameRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	member, err := h.repo.RenameMember(c.UserContext(), c.Params("name"), req.Name)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, member)
}

// RemoveMember archives the member's tasks and removes them from the roster
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.repo.RemoveMember(c.UserContext(), name); err != nil {
		return domainErrorResponse(c, err)
	}
	logger.WithRequestID(c.UserContext()).Info("team member removed", "name", name)
	return noContentResponse(c)
}

// ListCategories returns all categories with their slugs
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	cats := h.repo.Categories()
	out := make([]categoryResponse, len(cats))
	for i, cat := range cats {
		out[i] = presentCategory(cat)
	}
	return successResponse(c, out)
}

// AddCategory creates a category
func (h *Handler) AddCategory(c *fiber.Ctx) error {
	var req NameRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	cat, err := h.repo.AddCategory(c.UserContext(), req.Name)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return createdResponse(c, presentCategory(cat))
}

// RenameCategory renames the category at :slug and every task filed under it
func (h *Handler) RenameCategory(c *fiber.Ctx) error {
	var req NameRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	current, err := h.repo.CategoryBySlug(c.Params("slug"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	cat, err := h.repo.RenameCategory(c.UserContext(), current.Name, req.Name)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, presentCategory(cat))
}

// RemoveCategory deletes the category at :slug
func (h *Handler) RemoveCategory(c *fiber.Ctx) error {
	current, err := h.repo.CategoryBySlug(c.Params("slug"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if err := h.repo.RemoveCategory(c.UserContext(), current.Name); err != nil {
		return domainErrorResponse(c, err)
	}
	return noContentResponse(c)
}
