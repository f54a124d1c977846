package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/pkg/response"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// fail translates an application error into the response envelope. Internal
// causes are logged, never sent to the client.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	e := apperr.Wrap(err)
	if e.Kind == apperr.KindInternal && logger != nil {
		logger.WithError(e).WithField("path", c.FullPath()).Error("request failed")
	}
	response.Error[any](c, apperr.Status(e), e.Message, nil)
}

type registerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Age         *int   `json:"age"`
	Password    string `json:"password"`
}

// loginRequest only checks presence; the shape of the credentials is never
// inspected, so a malformed email or short password fails the same way as any
// other wrong pair.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Age         *int    `json:"age"`
	Password    *string `json:"password"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
		Password:    req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, nil, "User registered successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// pageParams parses limit/offset query values; absent values stay zero so the
// service can apply its defaults.
func pageParams(c *gin.Context) (limit, offset int, err error) {
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperr.Validation("limit must be an integer")
		}
	}
	if v := c.Query("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperr.Validation("offset must be an integer")
		}
	}
	return limit, offset, nil
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	users, meta, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", meta)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), entity.UserPatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
		Password:    req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "User updated successfully", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User deleted successfully", nil)
}
