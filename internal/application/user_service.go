package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

const (
	DefaultUserLimit = 10
	MaxPageLimit     = 100
)

// PageMeta describes a listing page.
type PageMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// PublicUser is the projection returned on login: never phone, age or
// password.
type PublicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UserListItem is the listing projection.
type UserListItem struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// UserProfile is the full record minus password.
type UserProfile struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Age         int       `json:"age"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProfile(u *entity.User) *UserProfile {
	return &UserProfile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Age:         u.Age,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      PublicUser `json:"user"`
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Age         *int
	Password    string
}

type UserService struct {
	Repo   repo.UserRepository
	Tasks  repo.TaskRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, tasks repo.TaskRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Tasks: tasks, JWT: jwt, Logger: logger}
}

// Register validates the payload, hashes the password and persists the user.
// The plaintext never reaches the store.
func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	if in.Age == nil {
		return apperr.Validation("Age is required")
	}
	u := &entity.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Age:         *in.Age,
		Password:    in.Password,
	}
	u.Normalize()
	if err := u.Validate(); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(u.Password)
	if err != nil {
		return apperr.Internal(err)
	}
	u.Password = hash
	if err := s.Repo.Create(ctx, u); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return nil
}

// Login authenticates by email and password. Any failure collapses into one
// undifferentiated credentials error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, apperr.Auth("invalid credentials")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.Auth("invalid credentials")
	}
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, apperr.Internal(err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      PublicUser{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
	}, nil
}

// List returns a page of users. limit defaults to 10 and is capped at 100.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]UserListItem, PageMeta, error) {
	if limit < 0 || offset < 0 {
		return nil, PageMeta{}, apperr.Validation("limit and offset must be non-negative")
	}
	if limit == 0 {
		limit = DefaultUserLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	users, total, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, PageMeta{}, err
	}
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			ID:          u.ID,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
		})
	}
	meta := PageMeta{Total: total, Limit: limit, Offset: offset, HasMore: int64(offset+len(items)) < total}
	return items, meta, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*UserProfile, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfile(u), nil
}

// Update applies a partial update. Only fields present in the patch change,
// each re-validated; a present password is rehashed before it hits the store.
// An empty patch degenerates to a read.
func (s *UserService) Update(ctx context.Context, id string, p entity.UserPatch) (*UserProfile, error) {
	if p.Empty() {
		return s.GetByID(ctx, id)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Password != nil {
		hash, err := helpers.HashPassword(*p.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		p.Password = &hash
	}
	u, err := s.Repo.Update(ctx, id, &p)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user updated")
	return toProfile(u), nil
}

// Delete removes a user unless tasks still reference them.
func (s *UserService) Delete(ctx context.Context, id string) error {
	n, err := s.Tasks.CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("user is referenced by existing tasks")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}
