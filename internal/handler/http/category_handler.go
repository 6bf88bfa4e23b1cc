package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/service"
)

// CategoryHandler exposes category CRUD.
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler creates the category handler.
func NewCategoryHandler(categories *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}

	categories, err := h.categories.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		FailError(c, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	Success(c, categories)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailValidation(c, err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "created", category)
}

// Update handles PUT /categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailValidation(c, err.Error())
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, principal.UserID, &req)
	if err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "updated", category)
}

// Delete handles DELETE /categories/:id. Fails while the category still
// contains live todos.
func (h *CategoryHandler) Delete(c *gin.Context) {
	principal, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		FailError(c, err)
		return
	}
	SuccessMessage(c, "deleted", nil)
}
