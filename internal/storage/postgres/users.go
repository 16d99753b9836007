package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/storage"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password,
                   token_version,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.db.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.TokenVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id,
       name,
       email,
       password,
       token_version,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	return r.selectUser(ctx, selectUserByIDQuery, id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT id,
       name,
       email,
       password,
       token_version,
       created_at,
       updated_at
FROM users
WHERE LOWER(email) = LOWER($1)
`
	return r.selectUser(ctx, selectUserByEmailQuery, email)
}

func (r *UserRepository) selectUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := new(models.User)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, wrapNoRows(err, "select user")
	}
	return user, nil
}

func (r *UserRepository) UpdateUserProfile(ctx context.Context, id, name, email string, updatedAt time.Time) (*models.User, error) {
	const updateUserProfileQuery = `
UPDATE users
SET name = $1,
    email = $2,
    updated_at = $3
WHERE id = $4
RETURNING id, name, email, password, token_version, created_at, updated_at
`
	user := new(models.User)
	err := r.db.QueryRow(
		ctx,
		updateUserProfileQuery,
		name,
		email,
		updatedAt,
		id,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, wrapNoRows(err, "update user profile")
	}
	return user, nil
}

func (r *UserRepository) UpdateUserPassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) (int64, error) {
	const updateUserPasswordQuery = `
UPDATE users
SET password = $1,
    token_version = token_version + 1,
    updated_at = $2
WHERE id = $3
RETURNING token_version
`
	var version int64
	err := r.db.QueryRow(
		ctx,
		updateUserPasswordQuery,
		passwordHash,
		updatedAt,
		id,
	).Scan(&version)
	if err != nil {
		return 0, wrapNoRows(err, "update user password")
	}
	return version, nil
}
