package application

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
)

// mockUserRepo is a mock implementation of repository.UserRepository.
// Each method delegates to its func field when set.
type mockUserRepo struct {
	CreateFunc     func(ctx context.Context, u *entity.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*entity.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	GetByIDsFunc   func(ctx context.Context, ids []string) ([]entity.User, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	UpdateFunc     func(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	u.ID = "64f0c2a4b1e8f4a7d3b9c001"
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NotFound("user not found")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, apperr.NotFound("user not found")
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return []entity.User{}, nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []entity.User{}, 0, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, p)
	}
	return nil, apperr.NotFound("user not found")
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return apperr.NotFound("user not found")
}

// mockTaskRepo is a mock implementation of repository.TaskRepository.
type mockTaskRepo struct {
	CreateFunc      func(ctx context.Context, t *entity.Task) error
	GetByIDFunc     func(ctx context.Context, id string) (*entity.Task, error)
	ListFunc        func(ctx context.Context, f repo.TaskFilter, limit, offset int) ([]entity.Task, int64, error)
	UpdateFunc      func(ctx context.Context, id string, p *entity.TaskPatch) (*entity.Task, error)
	DeleteFunc      func(ctx context.Context, id string) error
	CountByUserFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, t *entity.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	t.ID = "64f0c2a4b1e8f4a7d3b9c100"
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NotFound("task not found")
}

func (m *mockTaskRepo) List(ctx context.Context, f repo.TaskFilter, limit, offset int) ([]entity.Task, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f, limit, offset)
	}
	return []entity.Task{}, 0, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, p *entity.TaskPatch) (*entity.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, p)
	}
	return nil, apperr.NotFound("task not found")
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return apperr.NotFound("task not found")
}

func (m *mockTaskRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, userID)
	}
	return 0, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
