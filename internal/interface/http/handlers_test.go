package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type fakeUserRepo struct {
	CreateFunc     func(ctx context.Context, u *entity.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*entity.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	GetByIDsFunc   func(ctx context.Context, ids []string) ([]entity.User, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	UpdateFunc     func(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, u)
	}
	u.ID = "64f0c2a4b1e8f4a7d3b9c001"
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if f.GetByEmailFunc != nil {
		return f.GetByEmailFunc(ctx, email)
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, ids)
	}
	return []entity.User{}, nil
}

func (f *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, limit, offset)
	}
	return []entity.User{}, 0, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, id, p)
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return apperr.NotFound("user not found")
}

type fakeTaskRepo struct {
	CreateFunc      func(ctx context.Context, t *entity.Task) error
	GetByIDFunc     func(ctx context.Context, id string) (*entity.Task, error)
	ListFunc        func(ctx context.Context, f repo.TaskFilter, limit, offset int) ([]entity.Task, int64, error)
	UpdateFunc      func(ctx context.Context, id string, p *entity.TaskPatch) (*entity.Task, error)
	DeleteFunc      func(ctx context.Context, id string) error
	CountByUserFunc func(ctx context.Context, userID string) (int64, error)
}

func (f *fakeTaskRepo) Create(ctx context.Context, t *entity.Task) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, t)
	}
	t.ID = "64f0c2a4b1e8f4a7d3b9c100"
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NotFound("task not found")
}

func (f *fakeTaskRepo) List(ctx context.Context, fl repo.TaskFilter, limit, offset int) ([]entity.Task, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, fl, limit, offset)
	}
	return []entity.Task{}, 0, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id string, p *entity.TaskPatch) (*entity.Task, error) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, id, p)
	}
	return nil, apperr.NotFound("task not found")
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return apperr.NotFound("task not found")
}

func (f *fakeTaskRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	if f.CountByUserFunc != nil {
		return f.CountByUserFunc(ctx, userID)
	}
	return 0, nil
}

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUserService(users repo.UserRepository, tasks repo.TaskRepository) *application.UserService {
	return application.NewUserService(users, tasks, helpers.NewJWTManager("test-secret", time.Hour), silentLogger())
}

func newTaskService(tasks repo.TaskRepository, users repo.UserRepository) *application.TaskService {
	return application.NewTaskService(tasks, users, silentLogger())
}

// envelope mirrors response.APIResponse with the data left raw for the caller
// to unmarshal.
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
