package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/domain/repository"
)

// CategoryService implements category CRUD scoped to the calling user.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	todoRepo     repository.TodoRepository
	logger       *zap.Logger
}

// NewCategoryService creates the category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, todoRepo repository.TodoRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, todoRepo: todoRepo, logger: logger}
}

// List returns the user's categories.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, userID)
}

// Create persists a new category for the user.
func (s *CategoryService) Create(ctx context.Context, userID int64, req *models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("created category", zap.Int64("category_id", category.ID), zap.Int64("user_id", userID))
	return category, nil
}

// Update overwrites a category the user owns.
func (s *CategoryService) Update(ctx context.Context, id, userID int64, req *models.CategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Color = req.Color
	category.Icon = req.Icon
	category.SortOrder = req.SortOrder

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete soft-deletes a category, refusing while live todos still reference
// it.
func (s *CategoryService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.categoryRepo.FindByID(ctx, id, userID); err != nil {
		return err
	}

	count, err := s.todoRepo.CountByCategory(ctx, id, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.ErrCategoryHasTodos
	}

	return s.categoryRepo.SoftDelete(ctx, id, userID)
}
