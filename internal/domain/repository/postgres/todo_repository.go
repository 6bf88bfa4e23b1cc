package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/domain/repository"
)

const todoColumns = `id, user_id, category_id, title, description, priority, status,
	completed_at, due_date, reminder_time, sort_order, is_deleted, deleted_at,
	created_at, updated_at`

// TodoRepository implements repository.TodoRepository on PostgreSQL.
type TodoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository creates a PostgreSQL-backed todo repository.
func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

// FindByID retrieves a live todo owned by the given user.
func (r *TodoRepository) FindByID(ctx context.Context, id, userID int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE id = $1 AND user_id = $2 AND is_deleted = 0 AND deleted = 0`
	return r.scanTodo(r.pool.QueryRow(ctx, query, id, userID))
}

// FindDeletedByID retrieves a trashed todo owned by the given user.
func (r *TodoRepository) FindDeletedByID(ctx context.Context, id, userID int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE id = $1 AND user_id = $2 AND is_deleted = 1`
	return r.scanTodo(r.pool.QueryRow(ctx, query, id, userID))
}

// List returns one page of the user's todos plus the total count. Live
// listings sort by sort_order then recency; the trash sorts by deletion
// time.
func (r *TodoRepository) List(ctx context.Context, params repository.TodoListParams) ([]*models.Todo, int64, error) {
	where := `user_id = $1 AND is_deleted = 0 AND deleted = 0`
	order := `sort_order ASC, created_at DESC`
	if params.Deleted {
		where = `user_id = $1 AND is_deleted = 1`
		order = `deleted_at DESC`
	}

	args := []interface{}{params.UserID}
	if params.Status != nil {
		args = append(args, *params.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int64
	countQuery := `SELECT count(*) FROM todos WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewStorageError("count todos", err)
	}

	offset := (params.Page - 1) * params.Size
	args = append(args, params.Size, offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM todos WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		todoColumns, where, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, errors.NewStorageError("list todos", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo, err := r.scanTodo(rows)
		if err != nil {
			return nil, 0, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewStorageError("list todos", err)
	}
	return todos, total, nil
}

// Create persists a new todo and fills in its generated id.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (user_id, category_id, title, description, priority, status,
		                   due_date, reminder_time, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		todo.UserID, todo.CategoryID, todo.Title, todo.Description, todo.Priority,
		todo.Status, todo.DueDate, todo.ReminderTime, todo.SortOrder,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	return errors.NewStorageError("create todo", err)
}

// Update overwrites the editable fields of a live todo.
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET category_id = $3, title = $4, description = $5, priority = $6, status = $7,
		    completed_at = $8, due_date = $9, reminder_time = $10, sort_order = $11,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_deleted = 0 AND deleted = 0
	`
	tag, err := r.pool.Exec(ctx, query,
		todo.ID, todo.UserID, todo.CategoryID, todo.Title, todo.Description,
		todo.Priority, todo.Status, todo.CompletedAt, todo.DueDate,
		todo.ReminderTime, todo.SortOrder,
	)
	if err != nil {
		return errors.NewStorageError("update todo", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrTodoNotFound
	}
	return nil
}

// SetStatus transitions one live todo, stamping or clearing completed_at.
func (r *TodoRepository) SetStatus(ctx context.Context, id, userID int64, status int) error {
	tag, err := r.pool.Exec(ctx, statusQuery(`id = $1 AND user_id = $2`), id, userID, status, completedAt(status))
	if err != nil {
		return errors.NewStorageError("set todo status", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrTodoNotFound
	}
	return nil
}

// BatchSetStatus transitions every listed live todo owned by the user.
func (r *TodoRepository) BatchSetStatus(ctx context.Context, ids []int64, userID int64, status int) error {
	_, err := r.pool.Exec(ctx, statusQuery(`id = ANY($1) AND user_id = $2`), ids, userID, status, completedAt(status))
	return errors.NewStorageError("batch set todo status", err)
}

// SoftDelete moves one live todo to the trash.
func (r *TodoRepository) SoftDelete(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE todos SET is_deleted = 1, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_deleted = 0 AND deleted = 0
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return errors.NewStorageError("soft delete todo", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrTodoNotFound
	}
	return nil
}

// BatchSoftDelete moves every listed live todo owned by the user to the trash.
func (r *TodoRepository) BatchSoftDelete(ctx context.Context, ids []int64, userID int64) error {
	query := `
		UPDATE todos SET is_deleted = 1, deleted_at = now(), updated_at = now()
		WHERE id = ANY($1) AND user_id = $2 AND is_deleted = 0 AND deleted = 0
	`
	_, err := r.pool.Exec(ctx, query, ids, userID)
	return errors.NewStorageError("batch soft delete todos", err)
}

// Restore brings a trashed todo back.
func (r *TodoRepository) Restore(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE todos SET is_deleted = 0, deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_deleted = 1
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return errors.NewStorageError("restore todo", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrTodoNotFound
	}
	return nil
}

// EmptyTrash permanently deletes the user's trashed todos.
func (r *TodoRepository) EmptyTrash(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE user_id = $1 AND is_deleted = 1`, userID)
	return errors.NewStorageError("empty trash", err)
}

// MaxSortOrder returns the highest sort order among the user's live todos,
// or zero when there are none.
func (r *TodoRepository) MaxSortOrder(ctx context.Context, userID int64) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM todos
		WHERE user_id = $1 AND is_deleted = 0 AND deleted = 0`
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&max); err != nil {
		return 0, errors.NewStorageError("max sort order", err)
	}
	return max, nil
}

// CountByCategory counts the user's live todos in a category.
func (r *TodoRepository) CountByCategory(ctx context.Context, categoryID, userID int64) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM todos
		WHERE category_id = $1 AND user_id = $2 AND is_deleted = 0 AND deleted = 0`
	if err := r.pool.QueryRow(ctx, query, categoryID, userID).Scan(&count); err != nil {
		return 0, errors.NewStorageError("count todos by category", err)
	}
	return count, nil
}

func (r *TodoRepository) scanTodo(row pgx.Row) (*models.Todo, error) {
	todo := &models.Todo{}
	err := row.Scan(
		&todo.ID, &todo.UserID, &todo.CategoryID, &todo.Title, &todo.Description,
		&todo.Priority, &todo.Status, &todo.CompletedAt, &todo.DueDate,
		&todo.ReminderTime, &todo.SortOrder, &todo.IsDeleted, &todo.DeletedAt,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrTodoNotFound
		}
		return nil, errors.NewStorageError("find todo", err)
	}
	return todo, nil
}

func statusQuery(idFilter string) string {
	return `
		UPDATE todos SET status = $3, completed_at = $4, updated_at = now()
		WHERE ` + idFilter + ` AND is_deleted = 0 AND deleted = 0
	`
}

func completedAt(status int) *time.Time {
	if status == models.TodoStatusCompleted {
		now := time.Now()
		return &now
	}
	return nil
}
