package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
)

const userColumns = `id, wechat_openid, wechat_unionid, nickname, avatar_url, gender,
	country, province, city, language, last_login_time, login_count, status,
	created_at, updated_at`

// UserRepository implements repository.UserRepository on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID retrieves a non-deleted user by id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted = 0`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// FindByWeChatOpenID retrieves a non-deleted user by WeChat openid.
func (r *UserRepository) FindByWeChatOpenID(ctx context.Context, openID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wechat_openid = $1 AND deleted = 0`
	return r.scanUser(r.pool.QueryRow(ctx, query, openID))
}

// Create persists a new user and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (wechat_openid, wechat_unionid, nickname, avatar_url, gender,
		                   country, province, city, language, last_login_time, login_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.WeChatOpenID, user.WeChatUnionID, user.Nickname, user.AvatarURL, user.Gender,
		user.Country, user.Province, user.City, user.Language,
		user.LastLoginTime, user.LoginCount, user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return errors.NewStorageError("create user", err)
}

// UpdateProfile overwrites the mutable WeChat profile fields. The openid,
// status and creation time are left untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET wechat_unionid = $2, nickname = $3, avatar_url = $4, gender = $5,
		    country = $6, province = $7, city = $8, language = $9, updated_at = now()
		WHERE id = $1 AND deleted = 0
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID, user.WeChatUnionID, user.Nickname, user.AvatarURL, user.Gender,
		user.Country, user.Province, user.City, user.Language,
	)
	if err != nil {
		return errors.NewStorageError("update user profile", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

// RecordLogin bumps the login counter and stamps the last login time.
func (r *UserRepository) RecordLogin(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET login_count = login_count + 1, last_login_time = $2, updated_at = now()
		WHERE id = $1 AND deleted = 0
	`
	tag, err := r.pool.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return errors.NewStorageError("record login", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.WeChatOpenID, &user.WeChatUnionID, &user.Nickname, &user.AvatarURL,
		&user.Gender, &user.Country, &user.Province, &user.City, &user.Language,
		&user.LastLoginTime, &user.LoginCount, &user.Status,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.NewStorageError("find user", err)
	}
	return user, nil
}
