package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-manager-api/internal/container"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
)

// UserModule wires user HTTP handlers and the auth gate into routes.
// Public: POST /api/users/register, POST /api/users/login
// Protected: GET /api/users, GET/PUT/DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository) *UserModule {
	return &UserModule{Handler: h, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/register", registerLimiter, m.Handler.Register)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Users, container.GetJWT(), container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("", m.Handler.List)
		auth.GET("/:id", m.Handler.GetByID)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
