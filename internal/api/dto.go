package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/repository"
)

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Action   string     `json:"action" validate:"required,max=500"`
	Category string     `json:"category" validate:"max=100"`
	Assignee string     `json:"assignee" validate:"max=100"`
	DueBy    string     `json:"due_by_type" validate:"omitempty,dueby"`
	Energy   string     `json:"energy" validate:"omitempty,energy"`
	Status   string     `json:"status" validate:"omitempty,workstatus"`
	Date     *time.Time `json:"date"`
}

func (r CreateTaskRequest) toNewTask() repository.NewTask {
	return repository.NewTask{
		Action:   r.Action,
		Category: r.Category,
		Assignee: r.Assignee,
		DueBy:    models.DueBy(r.DueBy),
		Energy:   models.Energy(r.Energy),
		Status:   models.Status(r.Status),
		Date:     r.Date,
	}
}

// PatchTaskRequest is the body of PATCH /api/tasks/:id. Only the fields
// present in the body change; unknown fields are rejected.
type PatchTaskRequest struct {
	Action   *string    `json:"action" validate:"omitempty,min=1,max=500"`
	Category *string    `json:"category" validate:"omitempty,max=100"`
	Assignee *string    `json:"assignee" validate:"omitempty,max=100"`
	DueBy    *string    `json:"due_by_type" validate:"omitempty,dueby"`
	Energy   *string    `json:"energy" validate:"omitempty,energy"`
	Status   *string    `json:"status" validate:"omitempty,workstatus"`
	Date     *time.Time `json:"date"`
	Archived *bool      `json:"archived"`
}

// changes turns the present fields into typed lifecycle changes
func (r PatchTaskRequest) changes() []lifecycle.Change {
	var out []lifecycle.Change
	if r.Action != nil {
		out = append(out, lifecycle.SetAction{Action: *r.Action})
	}
	if r.Category != nil {
		out = append(out, lifecycle.SetCategory{Category: *r.Category})
	}
	if r.Assignee != nil {
		out = append(out, lifecycle.SetAssignee{Assignee: *r.Assignee})
	}
	if r.DueBy != nil {
		out = append(out, lifecycle.SetDueBy{DueBy: models.DueBy(*r.DueBy)})
	}
	if r.Energy != nil {
		out = append(out, lifecycle.SetEnergy{Energy: models.Energy(*r.Energy)})
	}
	if r.Status != nil {
		out = append(out, lifecycle.SetStatus{Status: models.Status(*r.Status)})
	}
	if r.Date != nil {
		out = append(out, lifecycle.SetDate{Date: r.Date})
	}
	if r.Archived != nil {
		out = append(out, lifecycle.SetArchived{Archived: *r.Archived})
	}
	return out
}

// NameRequest is the body for creating or renaming a member or category
type NameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	v.RegisterValidation("dueby", func(fl validator.FieldLevel) bool {
		return deadline.Known(models.DueBy(fl.Field().String()))
	})
	v.RegisterValidation("energy", func(fl validator.FieldLevel) bool {
		return models.IsValidEnergy(models.Energy(fl.Field().String()))
	})
	v.RegisterValidation("workstatus", func(fl validator.FieldLevel) bool {
		s := models.Status(fl.Field().String())
		return s != models.StatusDeleted && models.IsValidStatus(s)
	})
	return v
}

// FieldError is one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value any    `json:"value,omitempty"`
}

func validateStruct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Value: fe.Value()})
	}
	return out
}

// ValidationError carries the rules a request body failed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// bindJSON decodes and validates a request body. Errors are rendered by
// the app's error handler.
func bindJSON(c *fiber.Ctx, v any) error {
	if err := decodeStrict(c.Body(), v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if errs := validateStruct(v); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// decodeStrict decodes body into v, rejecting unknown fields and trailing data
func decodeStrict(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}
