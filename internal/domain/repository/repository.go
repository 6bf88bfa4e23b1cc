package repository

import (
	"context"

	"github.com/uiineed/todo-service/internal/domain/models"
)

// UserRepository is the persistence boundary the identity resolver consumes.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByWeChatOpenID(ctx context.Context, openID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	RecordLogin(ctx context.Context, userID int64) error
}

// TodoListParams filters a todo listing.
type TodoListParams struct {
	UserID  int64
	Status  *int
	Page    int
	Size    int
	Deleted bool
}

// TodoRepository persists todos. All lookups are scoped to a user id, and
// live queries exclude soft-deleted rows.
type TodoRepository interface {
	FindByID(ctx context.Context, id, userID int64) (*models.Todo, error)
	FindDeletedByID(ctx context.Context, id, userID int64) (*models.Todo, error)
	List(ctx context.Context, params TodoListParams) ([]*models.Todo, int64, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	SetStatus(ctx context.Context, id, userID int64, status int) error
	SoftDelete(ctx context.Context, id, userID int64) error
	Restore(ctx context.Context, id, userID int64) error
	BatchSetStatus(ctx context.Context, ids []int64, userID int64, status int) error
	BatchSoftDelete(ctx context.Context, ids []int64, userID int64) error
	EmptyTrash(ctx context.Context, userID int64) error
	MaxSortOrder(ctx context.Context, userID int64) (int, error)
	CountByCategory(ctx context.Context, categoryID, userID int64) (int64, error)
}

// CategoryRepository persists todo categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id, userID int64) (*models.Category, error)
	List(ctx context.Context, userID int64) ([]*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	SoftDelete(ctx context.Context, id, userID int64) error
}

// StateStore issues and single-use-validates the anti-forgery state nonce
// binding a login QR code to its provider callback. Consume is atomic: of
// two concurrent calls with the same nonce exactly one succeeds.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, nonce string) error
}
