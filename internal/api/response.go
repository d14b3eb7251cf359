package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/balkashynov/duedeck/internal/db"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/repository"
)

// Response is the envelope for every JSON reply
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeStoreFailed   = "STORE_WRITE_FAILED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

func successResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{Success: true, Data: data})
}

func createdResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

func noContentResponse(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func errorResponse(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, Details: details},
	})
}

func badRequestResponse(c *fiber.Ctx, message string) error {
	return errorResponse(c, fiber.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

func validationErrorResponse(c *fiber.Ctx, details any) error {
	return errorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, "Validation failed", details)
}

// classify maps domain errors to an HTTP status and error code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrMemberNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, db.ErrNotFound):
		return fiber.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, repository.ErrDuplicateName),
		errors.Is(err, lifecycle.ErrTaskDeleted),
		errors.Is(err, lifecycle.ErrNotInTrash):
		return fiber.StatusConflict, ErrCodeConflict
	case errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, lifecycle.ErrInvalidDueBy),
		errors.Is(err, lifecycle.ErrInvalidEnergy),
		errors.Is(err, lifecycle.ErrEmptyAction),
		errors.Is(err, lifecycle.ErrNoChanges),
		errors.Is(err, repository.ErrEmptyName),
		errors.Is(err, repository.ErrAssigneeRequired):
		return fiber.StatusBadRequest, ErrCodeValidation
	case db.IsWriteError(err):
		return fiber.StatusServiceUnavailable, ErrCodeStoreFailed
	default:
		return fiber.StatusInternalServerError, ErrCodeInternalError
	}
}

// domainErrorResponse writes err with the status its kind maps to
func domainErrorResponse(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return errorResponse(c, status, code, message, nil)
}
