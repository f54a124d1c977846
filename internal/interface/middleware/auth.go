package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
	"github.com/oksasatya/task-manager-api/pkg/response"
)

const (
	// CtxUserIDKey holds the authenticated user's id in the Gin context.
	CtxUserIDKey = "userID"
	// CtxUserKey holds the resolved *entity.User (password cleared).
	CtxUserKey = "authUser"
)

// Auth validates the bearer token from the Authorization header, resolves the
// claimed user against the store and attaches it to the request context.
// The client always gets a 401 with a coarse message; the actual parse
// failure only reaches the logs.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.AbortError[any](c, http.StatusUnauthorized, "no token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			response.AbortError[any](c, http.StatusUnauthorized, "no token", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Debug("token rejected")
			}
			response.AbortError[any](c, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.AbortError[any](c, http.StatusUnauthorized, "user not found", nil)
			return
		}
		u.Password = ""
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// UserFrom returns the authenticated user attached by Auth, if any.
func UserFrom(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
