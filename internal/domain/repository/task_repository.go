package repository

import (
	"context"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

// TaskFilter narrows a task listing; zero-valued fields impose no constraint.
// Present filters combine as a conjunction of exact matches.
type TaskFilter struct {
	Status     entity.Status
	Priority   entity.Priority
	AssignedTo string
}

// TaskRepository defines the interface for task persistence.
// Listings are always sorted ascending by due date.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	List(ctx context.Context, f TaskFilter, limit, offset int) ([]entity.Task, int64, error)
	// Update applies a field-level merge of the patch and returns the
	// updated task.
	Update(ctx context.Context, id string, p *entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	// CountByUser counts tasks referencing the user as assignee or creator.
	CountByUser(ctx context.Context, userID string) (int64, error)
}
