package repository

import (
	"context"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

// UserRepository defines the interface for user persistence.
// Implementations return apperr-typed errors for not-found and duplicate
// email conditions.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs fetches the users for the given ids; missing ids are simply
	// absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	// List returns a page of users plus the total count.
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	// Update applies a field-level merge of the patch and returns the
	// updated user. The patch's Password field must already be hashed.
	Update(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}
