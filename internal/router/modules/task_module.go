package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-manager-api/internal/container"
	repo "github.com/oksasatya/task-manager-api/internal/domain/repository"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
)

// TaskModule wires task HTTP handlers into routes. Reads are public by
// contract; every mutation and the per-assignee listing sit behind the gate.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Users   repo.UserRepository
}

func NewTaskModule(h *handlers.TaskHandler, users repo.UserRepository) *TaskModule {
	return &TaskModule{Handler: h, Users: users}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	// Public reads
	rg.GET("/tasks", m.Handler.List)
	rg.GET("/tasks/:id", m.Handler.GetByID)

	// Protected
	auth := rg.Group("/tasks")
	auth.Use(middleware.Auth(m.Users, container.GetJWT(), container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.GET("/user/:userId", m.Handler.ListByAssignee)
	}
}
