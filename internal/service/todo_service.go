package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/domain/repository"
)

// Batch actions accepted by BatchOperation.
const (
	BatchActionComplete   = "complete"
	BatchActionUncomplete = "uncomplete"
	BatchActionDelete     = "delete"
)

// TodoService implements todo CRUD, status transitions and the trash.
// Every operation is scoped to the calling user's id.
type TodoService struct {
	todoRepo     repository.TodoRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewTodoService creates the todo service.
func NewTodoService(todoRepo repository.TodoRepository, categoryRepo repository.CategoryRepository, logger *zap.Logger) *TodoService {
	return &TodoService{todoRepo: todoRepo, categoryRepo: categoryRepo, logger: logger}
}

// List returns one page of the user's live todos, optionally filtered by
// status.
func (s *TodoService) List(ctx context.Context, userID int64, status *int, page, size int) (*models.Page[*models.Todo], error) {
	todos, total, err := s.todoRepo.List(ctx, repository.TodoListParams{
		UserID: userID,
		Status: status,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}
	return models.NewPage(todos, total, page, size), nil
}

// ListTrash returns one page of the user's trashed todos.
func (s *TodoService) ListTrash(ctx context.Context, userID int64, page, size int) (*models.Page[*models.Todo], error) {
	todos, total, err := s.todoRepo.List(ctx, repository.TodoListParams{
		UserID:  userID,
		Page:    page,
		Size:    size,
		Deleted: true,
	})
	if err != nil {
		return nil, err
	}
	return models.NewPage(todos, total, page, size), nil
}

// Get fetches one live todo owned by the user.
func (s *TodoService) Get(ctx context.Context, id, userID int64) (*models.Todo, error) {
	return s.todoRepo.FindByID(ctx, id, userID)
}

// Create validates the category reference and persists a new todo at the
// end of the user's sort order.
func (s *TodoService) Create(ctx context.Context, userID int64, req *models.TodoCreateRequest) (*models.Todo, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID, userID); err != nil {
			return nil, err
		}
	}

	maxOrder, err := s.todoRepo.MaxSortOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}

	todo := &models.Todo{
		UserID:       userID,
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		Status:       models.TodoStatusOpen,
		DueDate:      req.DueDate,
		ReminderTime: req.ReminderTime,
		SortOrder:    maxOrder + 1,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	s.logger.Info("created todo", zap.Int64("todo_id", todo.ID), zap.Int64("user_id", userID))
	return todo, nil
}

// Update applies the non-nil fields of the request to a live todo the user
// owns. Moving a todo into the completed status stamps completed_at; moving
// out clears it.
func (s *TodoService) Update(ctx context.Context, id, userID int64, req *models.TodoUpdateRequest) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID, userID); err != nil {
			return nil, err
		}
		todo.CategoryID = req.CategoryID
	}
	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	if req.ReminderTime != nil {
		todo.ReminderTime = req.ReminderTime
	}
	if req.SortOrder != nil {
		todo.SortOrder = *req.SortOrder
	}
	if req.Status != nil && *req.Status != todo.Status {
		todo.Status = *req.Status
		if todo.Status == models.TodoStatusCompleted {
			now := time.Now()
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Complete marks a todo done.
func (s *TodoService) Complete(ctx context.Context, id, userID int64) error {
	return s.todoRepo.SetStatus(ctx, id, userID, models.TodoStatusCompleted)
}

// Uncomplete moves a todo back to open.
func (s *TodoService) Uncomplete(ctx context.Context, id, userID int64) error {
	return s.todoRepo.SetStatus(ctx, id, userID, models.TodoStatusOpen)
}

// Delete moves a todo to the trash.
func (s *TodoService) Delete(ctx context.Context, id, userID int64) error {
	return s.todoRepo.SoftDelete(ctx, id, userID)
}

// Restore brings a trashed todo back and returns it.
func (s *TodoService) Restore(ctx context.Context, id, userID int64) (*models.Todo, error) {
	if _, err := s.todoRepo.FindDeletedByID(ctx, id, userID); err != nil {
		return nil, err
	}
	if err := s.todoRepo.Restore(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.todoRepo.FindByID(ctx, id, userID)
}

// BatchOperation applies one action to a set of the user's todos.
func (s *TodoService) BatchOperation(ctx context.Context, userID int64, action string, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: empty id list", errors.ErrInvalidRequest)
	}
	switch action {
	case BatchActionComplete:
		return s.todoRepo.BatchSetStatus(ctx, ids, userID, models.TodoStatusCompleted)
	case BatchActionUncomplete:
		return s.todoRepo.BatchSetStatus(ctx, ids, userID, models.TodoStatusOpen)
	case BatchActionDelete:
		return s.todoRepo.BatchSoftDelete(ctx, ids, userID)
	default:
		return fmt.Errorf("%w: unsupported batch action %q", errors.ErrInvalidRequest, action)
	}
}

// EmptyTrash permanently deletes the user's trashed todos.
func (s *TodoService) EmptyTrash(ctx context.Context, userID int64) error {
	s.logger.Info("emptying trash", zap.Int64("user_id", userID))
	return s.todoRepo.EmptyTrash(ctx, userID)
}
