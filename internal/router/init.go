package router

import (
	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/container"
	"github.com/oksasatya/task-manager-api/internal/infrastructure/mongodb"
	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	userRepo := mongodb.NewUserRepository(container.GetMongo())
	taskRepo := mongodb.NewTaskRepository(container.GetMongo())

	userSvc := application.NewUserService(userRepo, taskRepo, container.GetJWT(), container.GetLogger())
	taskSvc := application.NewTaskService(taskRepo, userRepo, container.GetLogger())

	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger())
	taskHandler := handlers.NewTaskHandler(taskSvc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, userRepo))
	r.Add(modules.NewTaskModule(taskHandler, userRepo))
}
