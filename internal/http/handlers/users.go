package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/techhive/internal/domain/user"
	"github.com/geocoder89/techhive/internal/service"
	"github.com/geocoder89/techhive/internal/validation"
	"github.com/gin-gonic/gin"
)

const requestTimeout = 3 * time.Second

type UsersManager interface {
	ListUsers(ctx context.Context) ([]user.Read, error)
	GetUser(ctx context.Context, id int64) (service.Outcome, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (service.Outcome, error)
	UpdateUser(ctx context.Context, id int64, req user.UpdateUserRequest) (service.Outcome, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type UsersHandler struct {
	users UsersManager
}

func NewUsersHandler(users UsersManager) *UsersHandler {
	return &UsersHandler{users: users}
}

func userIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		RespondBadRequest(ctx, "Invalid user id.", nil)
		return 0, false
	}
	return id, true
}

// GET /api/users
func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	users, err := h.users.ListUsers(cctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, users)
}

// GET /api/users/:id
func (h *UsersHandler) GetUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	out, err := h.users.GetUser(cctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}

	if out.Status == service.StatusNotFound {
		RespondNotFound(ctx, "User not found.")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, out.User)
}

// POST /api/users
func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := validation.CreateUser.Validate(req); len(violations) > 0 {
		RespondValidation(ctx, violations)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	out, err := h.users.CreateUser(cctx, req)
	if err != nil {
		fail(ctx, err)
		return
	}

	switch out.Status {
	case service.StatusConflict:
		RespondBadRequest(ctx, out.Reason, nil)
	default:
		ctx.Header("Location", "/api/users/"+strconv.FormatInt(out.User.ID, 10))
		ctx.JSON(http.StatusCreated, out.User)
	}
}

// PUT /api/users/:id
func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := validation.UpdateUser.Validate(req); len(violations) > 0 {
		RespondValidation(ctx, violations)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	out, err := h.users.UpdateUser(cctx, id, req)
	if err != nil {
		fail(ctx, err)
		return
	}

	switch out.Status {
	case service.StatusNotFound:
		RespondNotFound(ctx, "User not found.")
	case service.StatusConflict:
		RespondBadRequest(ctx, out.Reason, nil)
	default:
		ctx.JSON(http.StatusOK, out.User)
	}
}

// DELETE /api/users/:id
func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.users.DeleteUser(cctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}

	if !deleted {
		RespondNotFound(ctx, "User not found.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
