package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/storage"
)

type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id, name, email, password, token_version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	_, err := r.db.ExecContext(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.TokenVersion,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id, name, email, password, token_version, created_at, updated_at
FROM users WHERE id = ?
`
	return r.selectUser(ctx, selectUserByIDQuery, id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	// The email column collates NOCASE.
	const selectUserByEmailQuery = `
SELECT id, name, email, password, token_version, created_at, updated_at
FROM users WHERE email = ?
`
	return r.selectUser(ctx, selectUserByEmailQuery, email)
}

func (r *UserRepository) selectUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := new(models.User)
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.TokenVersion,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, wrapNoRows(err, "select user")
	}

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	user.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdateUserProfile(ctx context.Context, id, name, email string, updatedAt time.Time) (*models.User, error) {
	const updateUserProfileQuery = `
UPDATE users SET name = ?, email = ?, updated_at = ?
WHERE id = ?
`
	res, err := r.db.ExecContext(ctx, updateUserProfileQuery, name, email, formatTime(updatedAt), id)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *UserRepository) UpdateUserPassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) (int64, error) {
	const updateUserPasswordQuery = `
UPDATE users SET password = ?, token_version = token_version + 1, updated_at = ?
WHERE id = ?
RETURNING token_version
`
	var version int64
	err := r.db.QueryRowContext(ctx, updateUserPasswordQuery, passwordHash, formatTime(updatedAt), id).Scan(&version)
	if err != nil {
		return 0, wrapNoRows(err, "update user password")
	}
	return version, nil
}
