package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	taskapp "github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/pkg/response"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

type TaskHandler struct {
	Svc    *taskapp.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *taskapp.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	actingUser := c.GetString("userID")
	t, err := h.Svc.Create(c.Request.Context(), taskapp.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	}, actingUser)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "Task created successfully", nil)
}

func (h *TaskHandler) List(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	filter := taskapp.TaskListFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assigned_to"),
	}
	tasks, meta, err := h.Svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks", meta)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	t, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "task", nil)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	patch := entity.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	}
	if req.Status != nil {
		st := entity.Status(*req.Status)
		patch.Status = &st
	}
	if req.Priority != nil {
		pr := entity.Priority(*req.Priority)
		patch.Priority = &pr
	}
	t, err := h.Svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "Task updated successfully", nil)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task_id": id}, "Task deleted successfully", nil)
}

func (h *TaskHandler) ListByAssignee(c *gin.Context) {
	tasks, err := h.Svc.ListByAssignee(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks", nil)
}
