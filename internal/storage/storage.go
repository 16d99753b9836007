// Package storage declares the persistence contracts shared by the
// Postgres and SQLite backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/smart-task/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type UserRepository interface {
	// CreateUser returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUserProfile returns ErrAlreadyExists if the email
	// belongs to another user.
	UpdateUserProfile(ctx context.Context, id, name, email string, updatedAt time.Time) (*models.User, error)
	// UpdateUserPassword replaces the hash and increments the token
	// version, returning the new version.
	UpdateUserPassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) (int64, error)
}

// TaskRepository scopes every read and write by owner. A task owned by
// someone else is reported as ErrNotFound.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Ping(ctx context.Context) error
	Close() error
}
