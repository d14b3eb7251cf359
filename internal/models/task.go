package models

import (
	"time"
)

// Status is the workflow state of a task
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusBlocked    Status = "Blocked"
	StatusDone       Status = "Done"
	StatusDeleted    Status = "Deleted"
)

// WorkingStatuses are the states a user can pick directly
var WorkingStatuses = []Status{StatusToDo, StatusInProgress, StatusBlocked, StatusDone}

// DueBy is the relative time token a task is due by
type DueBy string

const (
	DueByOneHour    DueBy = "1 hr"
	DueBySixHours   DueBy = "6 hrs"
	DueByToday      DueBy = "Today"
	DueByThreeDays  DueBy = "3 days"
	DueByThisWeek   DueBy = "This Week"
	DueByThisMonth  DueBy = "This Month"
	DueByBackburner DueBy = "Backburner"
)

// DefaultDueBy is used when a task is created without a due-by token
const DefaultDueBy = DueByThisWeek

// Priority is the tier derived from a task's due-by token
type Priority string

const (
	PriorityP1         Priority = "P1"
	PriorityP2         Priority = "P2"
	PriorityP3         Priority = "P3"
	PriorityBackburner Priority = "Backburner"
)

// Priorities lists the tiers from most to least urgent
var Priorities = []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityBackburner}

// Energy is how much focus a task needs
type Energy string

const (
	EnergyLow    Energy = "Low"
	EnergyMedium Energy = "Medium"
	EnergyHigh   Energy = "High"
)

// Task represents a team action item
type Task struct {
	ID        uint      `gorm:"primarykey;autoIncrement:false" json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created" yaml:"created"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	Status   Status `gorm:"not null" json:"status" yaml:"status"`
	Action   string `gorm:"not null" json:"action" yaml:"action"`
	Category string `gorm:"index" json:"category" yaml:"category,omitempty"`
	Assignee string `gorm:"index" json:"assignee" yaml:"assignee,omitempty"`
	Energy   Energy `json:"energy" yaml:"energy"`

	// Priority and TargetDeadline are derived from DueBy and always written together
	DueBy          DueBy      `gorm:"column:due_by_type" json:"due_by_type" yaml:"due_by_type"`
	Priority       Priority   `json:"priority" yaml:"priority"`
	TargetDeadline *time.Time `json:"target_deadline" yaml:"target_deadline,omitempty"`

	SubmittedOn  *time.Time `json:"submitted_on" yaml:"submitted_on,omitempty"`
	Date         *time.Time `json:"date" yaml:"date,omitempty"` // planned day
	DeletionDate *time.Time `json:"deletion_date" yaml:"deletion_date,omitempty"`
	IsArchived   bool       `gorm:"default:false" json:"is_archived" yaml:"is_archived"`
}

// IsDone reports whether the task is completed
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsDeleted reports whether the task sits in the trash
func (t Task) IsDeleted() bool {
	return t.Status == StatusDeleted
}

// IsActive reports whether the task shows up on working views
func (t Task) IsActive() bool {
	return !t.IsDone() && !t.IsDeleted() && !t.IsArchived
}

// CompletionTime returns the best available completion timestamp.
// Precedence: deletion date, submitted on, created, planned date.
func (t Task) CompletionTime() *time.Time {
	if t.DeletionDate != nil {
		return t.DeletionDate
	}
	if t.SubmittedOn != nil {
		return t.SubmittedOn
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		return &created
	}
	return t.Date
}

// IsValidStatus checks s against the known statuses, Deleted included
func IsValidStatus(s Status) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusBlocked, StatusDone, StatusDeleted:
		return true
	}
	return false
}

// IsValidEnergy checks e against the known energy levels
func IsValidEnergy(e Energy) bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}
