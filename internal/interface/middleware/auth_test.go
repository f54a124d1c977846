package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

type stubUserRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*entity.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }
func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NotFound("user not found")
}
func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, apperr.NotFound("user not found")
}
func (s *stubUserRepo) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	return nil, nil
}
func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) Update(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error) {
	return nil, apperr.NotFound("user not found")
}
func (s *stubUserRepo) Delete(ctx context.Context, id string) error { return nil }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func authRouter(users *stubUserRepo, jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(users, jwt, quietLogger()), func(c *gin.Context) {
		u, ok := UserFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(CtxUserIDKey),
			"email":    u.Email,
			"password": u.Password,
		})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelopeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestAuthRejectsMissingToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := authRouter(&stubUserRepo{}, jwt)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare bearer", "Bearer "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "no token", envelopeMessage(t, w))
		})
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := authRouter(&stubUserRepo{}, jwt)

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(r, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", envelopeMessage(t, w))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := helpers.NewJWTManager("other-secret", time.Hour)
		token, _, err := other.GenerateToken("uid", "jane@example.com")
		require.NoError(t, err)

		w := doGet(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", envelopeMessage(t, w))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := helpers.NewJWTManager("secret", -time.Hour)
		token, _, err := expired.GenerateToken("uid", "jane@example.com")
		require.NoError(t, err)

		w := doGet(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", envelopeMessage(t, w))
	})
}

func TestAuthRejectsUnknownUser(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := authRouter(&stubUserRepo{}, jwt) // store resolves nobody

	token, _, err := jwt.GenerateToken("64f0c2a4b1e8f4a7d3b9c001", "jane@example.com")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user not found", envelopeMessage(t, w))
}

func TestAuthAttachesResolvedUser(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	users := &stubUserRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Email: "jane@example.com", Password: "hash"}, nil
		},
	}
	r := authRouter(users, jwt)

	token, _, err := jwt.GenerateToken("64f0c2a4b1e8f4a7d3b9c001", "jane@example.com")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID   string `json:"user_id"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "64f0c2a4b1e8f4a7d3b9c001", body.UserID)
	assert.Equal(t, "jane@example.com", body.Email)
	assert.Empty(t, body.Password) // password never crosses the middleware
}
