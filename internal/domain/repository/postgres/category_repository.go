package postgres

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
)

const categoryColumns = `id, user_id, name, color, icon, sort_order, created_at, updated_at`

// CategoryRepository implements repository.CategoryRepository on PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// FindByID retrieves a live category owned by the given user.
func (r *CategoryRepository) FindByID(ctx context.Context, id, userID int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM todo_categories
		WHERE id = $1 AND user_id = $2 AND deleted = 0`
	return r.scanCategory(r.pool.QueryRow(ctx, query, id, userID))
}

// List returns the user's categories ordered by sort order.
func (r *CategoryRepository) List(ctx context.Context, userID int64) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM todo_categories
		WHERE user_id = $1 AND deleted = 0
		ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.NewStorageError("list categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := r.scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("list categories", err)
	}
	return categories, nil
}

// Create persists a new category and fills in its generated id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO todo_categories (user_id, name, color, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		category.UserID, category.Name, category.Color, category.Icon, category.SortOrder,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	return errors.NewStorageError("create category", err)
}

// Update overwrites the editable fields of a live category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE todo_categories
		SET name = $3, color = $4, icon = $5, sort_order = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted = 0
	`
	tag, err := r.pool.Exec(ctx, query,
		category.ID, category.UserID, category.Name, category.Color,
		category.Icon, category.SortOrder,
	)
	if err != nil {
		return errors.NewStorageError("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrCategoryNotFound
	}
	return nil
}

// SoftDelete marks a category deleted. The caller checks the has-todos guard.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE todo_categories SET deleted = 1, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted = 0
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return errors.NewStorageError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) scanCategory(row pgx.Row) (*models.Category, error) {
	category := &models.Category{}
	err := row.Scan(
		&category.ID, &category.UserID, &category.Name, &category.Color,
		&category.Icon, &category.SortOrder, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, errors.NewStorageError("find category", err)
	}
	return category, nil
}
