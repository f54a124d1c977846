package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
)

const DefaultTaskLimit = 20

// UserRef is the expanded form of a task's weak user reference.
type UserRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TaskView is a task with its references expanded. A reference to a user that
// no longer exists comes back nil.
type TaskView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     time.Time       `json:"due_date"`
	Status      entity.Status   `json:"status"`
	Priority    entity.Priority `json:"priority"`
	AssignedTo  *UserRef        `json:"assigned_to"`
	CreatedBy   *UserRef        `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	Priority    string
	AssignedTo  string
}

// TaskListFilter is the raw filter input; enum values get validated before
// the query is built.
type TaskListFilter struct {
	Status     string
	Priority   string
	AssignedTo string
}

type TaskService struct {
	Repo   repo.TaskRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewTaskService(r repo.TaskRepository, users repo.UserRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: r, Users: users, Logger: logger}
}

// Create validates and persists a task for the acting user. created_by is
// always the acting user, whatever the client sent.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, actingUserID string) (*TaskView, error) {
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      entity.Status(in.Status),
		Priority:    entity.Priority(in.Priority),
		AssignedTo:  in.AssignedTo,
		CreatedBy:   actingUserID,
	}
	if in.DueDate != nil {
		t.DueDate = *in.DueDate
	}
	t.Normalize()
	if err := t.Validate(time.Now()); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"task_id": t.ID, "created_by": t.CreatedBy}).Info("task created")
	return s.expandOne(ctx, t)
}

// List applies the conjunction of present filters, sorted ascending by due
// date. limit defaults to 20 and is capped at 100.
func (s *TaskService) List(ctx context.Context, f TaskListFilter, limit, offset int) ([]TaskView, PageMeta, error) {
	if limit < 0 || offset < 0 {
		return nil, PageMeta{}, apperr.Validation("limit and offset must be non-negative")
	}
	if limit == 0 {
		limit = DefaultTaskLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	filter, err := buildFilter(f)
	if err != nil {
		return nil, PageMeta{}, err
	}
	tasks, total, err := s.Repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, PageMeta{}, err
	}
	views, err := s.expand(ctx, tasks)
	if err != nil {
		return nil, PageMeta{}, err
	}
	meta := PageMeta{Total: total, Limit: limit, Offset: offset, HasMore: int64(offset+len(views)) < total}
	return views, meta, nil
}

func buildFilter(f TaskListFilter) (repo.TaskFilter, error) {
	out := repo.TaskFilter{AssignedTo: f.AssignedTo}
	if f.Status != "" {
		st := entity.Status(f.Status)
		if !st.Valid() {
			return out, apperr.Validation(f.Status + " is not a valid status")
		}
		out.Status = st
	}
	if f.Priority != "" {
		pr := entity.Priority(f.Priority)
		if !pr.Valid() {
			return out, apperr.Validation(f.Priority + " is not a valid priority level")
		}
		out.Priority = pr
	}
	return out, nil
}

func (s *TaskService) GetByID(ctx context.Context, id string) (*TaskView, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expandOne(ctx, t)
}

// Update applies the allow-listed partial update with re-validation. An empty
// patch degenerates to a read.
func (s *TaskService) Update(ctx context.Context, id string, p entity.TaskPatch) (*TaskView, error) {
	if p.Empty() {
		return s.GetByID(ctx, id)
	}
	p.Normalize()
	if err := p.Validate(time.Now()); err != nil {
		return nil, err
	}
	t, err := s.Repo.Update(ctx, id, &p)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("task_id", t.ID).Info("task updated")
	return s.expandOne(ctx, t)
}

// Delete removes a task and returns the deleted id.
func (s *TaskService) Delete(ctx context.Context, id string) (string, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.Repo.Delete(ctx, t.ID); err != nil {
		return "", err
	}
	s.Logger.WithField("task_id", t.ID).Info("task deleted")
	return t.ID, nil
}

// ListByAssignee returns every task assigned to the user, due date ascending.
func (s *TaskService) ListByAssignee(ctx context.Context, userID string) ([]TaskView, error) {
	tasks, _, err := s.Repo.List(ctx, repo.TaskFilter{AssignedTo: userID}, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, tasks)
}

func (s *TaskService) expandOne(ctx context.Context, t *entity.Task) (*TaskView, error) {
	views, err := s.expand(ctx, []entity.Task{*t})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// expand resolves assigned_to/created_by references with one batched lookup.
func (s *TaskService) expand(ctx context.Context, tasks []entity.Task) ([]TaskView, error) {
	idSet := make(map[string]struct{}, len(tasks)*2)
	for _, t := range tasks {
		idSet[t.AssignedTo] = struct{}{}
		idSet[t.CreatedBy] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]*UserRef, len(users))
	for i := range users {
		u := users[i]
		refs[u.ID] = &UserRef{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			Status:      t.Status,
			Priority:    t.Priority,
			AssignedTo:  refs[t.AssignedTo],
			CreatedBy:   refs[t.CreatedBy],
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return views, nil
}
