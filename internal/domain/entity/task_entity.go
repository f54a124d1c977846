package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to the user that created it and is assigned to a user.
// AssignedTo and CreatedBy are weak references (user ids) resolved on read.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Status      Status
	Priority    Priority
	AssignedTo  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Normalize trims free-text fields and applies the schema defaults for
// status and priority.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// Validate checks every field rule and reports the first violated one.
func (t *Task) Validate(now time.Time) error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if t.DueDate.IsZero() {
		return apperr.Validation("Due date is required")
	}
	if err := validateDueDate(t.DueDate, now); err != nil {
		return err
	}
	if err := validateStatus(t.Status); err != nil {
		return err
	}
	if err := validatePriority(t.Priority); err != nil {
		return err
	}
	if t.AssignedTo == "" {
		return apperr.Validation("Task must be assigned to a user")
	}
	return nil
}

func validateTitle(v string) error {
	if v == "" {
		return apperr.Validation("Task title is required")
	}
	if utf8.RuneCountInString(v) < 3 {
		return apperr.Validation("Title must be at least 3 characters long")
	}
	return nil
}

func validateDescription(v string) error {
	if utf8.RuneCountInString(v) > 1000 {
		return apperr.Validation("Description cannot exceed 1000 characters")
	}
	return nil
}

func validateDueDate(v, now time.Time) error {
	if !v.After(now) {
		return apperr.Validation("Due date must be in the future")
	}
	return nil
}

func validateStatus(v Status) error {
	if !v.Valid() {
		return apperr.Validation(string(v) + " is not a valid status")
	}
	return nil
}

func validatePriority(v Priority) error {
	if !v.Valid() {
		return apperr.Validation(string(v) + " is not a valid priority level")
	}
	return nil
}

// TaskPatch carries the allow-listed partial update; nil fields are left
// untouched. CreatedBy deliberately has no seat here.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *Status
	Priority    *Priority
	AssignedTo  *string
}

func (p *TaskPatch) Normalize() {
	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		*p.Description = strings.TrimSpace(*p.Description)
	}
}

// Validate re-checks the rules for each field present in the patch.
// The due date must still be in the future whenever it is modified.
func (p *TaskPatch) Validate(now time.Time) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		if err := validateDueDate(*p.DueDate, now); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := validateStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := validatePriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.AssignedTo != nil && *p.AssignedTo == "" {
		return apperr.Validation("Task must be assigned to a user")
	}
	return nil
}

func (p *TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Status == nil && p.Priority == nil && p.AssignedTo == nil
}
