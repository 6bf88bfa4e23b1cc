package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/handler/http/middleware"
	"github.com/uiineed/todo-service/internal/service"
)

// TodoHandler exposes todo CRUD, status transitions and the trash.
type TodoHandler struct {
	todos  *service.TodoService
	logger *zap.Logger
}

// NewTodoHandler creates the todo handler.
func NewTodoHandler(todos *service.TodoService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: logger}
}

// List handles GET /todos with optional status filter and pagination.
func (h *TodoHandler) List(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}

	var status *int
	if raw := c.Query("status"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			FailValidation(c, "status must be an integer")
			return
		}
		status = &value
	}
	page, size, ok := pagination(c)
	if !ok {
		return
	}

	result, err := h.todos.List(c.Request.Context(), principal.UserID, status, page, size)
	if err != nil {
		h.logger.Error("failed to list todos", zap.Error(err))
		FailError(c, err)
		return
	}
	Success(c, result)
}

// Get handles GET /todos/:id.
func (h *TodoHandler) Get(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), id, principal.UserID)
	if err != nil {
		FailError(c, err)
		return
	}
	Success(c, todo)
}

// Create handles POST /todos.
func (h *TodoHandler) Create(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}

	var req models.TodoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailValidation(c, err.Error())
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "created", todo)
}

// Update handles PUT /todos/:id.
func (h *TodoHandler) Update(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.TodoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailValidation(c, err.Error())
		return
	}

	todo, err := h.todos.Update(c.Request.Context(), id, principal.UserID, &req)
	if err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "updated", todo)
}

// Complete handles PUT /todos/:id/complete.
func (h *TodoHandler) Complete(c *gin.Context) {
	h.setStatus(c, h.todos.Complete, "marked completed")
}

// Uncomplete handles PUT /todos/:id/uncomplete.
func (h *TodoHandler) Uncomplete(c *gin.Context) {
	h.setStatus(c, h.todos.Uncomplete, "marked uncompleted")
}

// Delete handles DELETE /todos/:id (soft delete).
func (h *TodoHandler) Delete(c *gin.Context) {
	h.setStatus(c, h.todos.Delete, "deleted")
}

// Restore handles PUT /todos/:id/restore.
func (h *TodoHandler) Restore(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	todo, err := h.todos.Restore(c.Request.Context(), id, principal.UserID)
	if err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "restored", todo)
}

type batchRequest struct {
	Action string  `json:"action" binding:"required"`
	IDs    []int64 `json:"ids" binding:"required,min=1"`
}

// Batch handles POST /todos/batch with actions complete, uncomplete and
// delete.
func (h *TodoHandler) Batch(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailValidation(c, err.Error())
		return
	}

	if err := h.todos.BatchOperation(c.Request.Context(), principal.UserID, req.Action, req.IDs); err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "batch operation applied", nil)
}

// Trash handles GET /todos/trash.
func (h *TodoHandler) Trash(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	page, size, ok := pagination(c)
	if !ok {
		return
	}

	result, err := h.todos.ListTrash(c.Request.Context(), principal.UserID, page, size)
	if err != nil {
		FailError(c, err)
		return
	}
	Success(c, result)
}

// EmptyTrash handles DELETE /todos/trash.
func (h *TodoHandler) EmptyTrash(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}

	if err := h.todos.EmptyTrash(c.Request.Context(), principal.UserID); err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "trash emptied", nil)
}

func (h *TodoHandler) setStatus(c *gin.Context, op func(ctx context.Context, id, userID int64) error, message string) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), id, principal.UserID); err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, message, nil)
}

// principal pulls the verified caller identity off the request context,
// writing the uniform 401 when it is absent.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeUnauthorized, "unauthenticated")
	}
	return p, ok
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		FailValidation(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (page, size int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		FailValidation(c, "page must be a positive integer")
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 200 {
		FailValidation(c, "size must be between 1 and 200")
		return 0, 0, false
	}
	return page, size, true
}
