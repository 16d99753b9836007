package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/smart-task/internal/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
)

// Error carries a client-facing message for one of the sentinel errors
// above. Use errors.Is against the sentinel to classify it.
type Error struct {
	kind    error
	message string
}

func newError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }
func (e *Error) Unwrap() error { return e.kind }

type AuthService interface {
	// Register creates a user and issues a session token for it.
	//
	// It returns ErrInvalidInput if a field is missing or malformed
	// and ErrUserAlreadyExists if the email is taken in any letter case.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Login verifies the credentials and issues a session token whose
	// lifetime depends on params.RememberMe.
	//
	// It returns ErrInvalidCredentials both for an unknown email and
	// for a wrong password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// GetUser returns ErrUserNotFound if the user doesn't exist.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile replaces the user's name and email.
	//
	// It returns ErrUserAlreadyExists if another user owns the email.
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)

	// ChangePassword replaces the password hash and bumps the token
	// version, which revokes every token issued before. A fresh token
	// for the caller is returned.
	//
	// It returns ErrInvalidCredentials if the current password is wrong.
	ChangePassword(ctx context.Context, params ChangePasswordParams) (*LoginResult, error)
}

type SessionService interface {
	// Issue signs a token bound to the user and its token version.
	Issue(user *models.User, rememberMe bool) (token string, expiresAt time.Time, err error)

	// Authenticate verifies the token and resolves its user.
	//
	// Every rejection (missing, malformed, expired, unknown user,
	// revoked version) is reported as ErrInvalidSession.
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	// GetTask returns ErrTaskNotFound for tasks owned by someone else.
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error)
	// UpdateTask changes only the supplied fields.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	ToggleTaskCompletion(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	GetTaskStats(ctx context.Context, userID string) (*TaskStats, error)
}

type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	RememberMe bool
}

type LoginParams struct {
	Email      string
	Password   string
	RememberMe bool
}

type LoginResult struct {
	User           *models.User
	Token          string
	TokenExpiresAt time.Time
}

type UpdateProfileParams struct {
	UserID string
	Name   string
	Email  string
}

type ChangePasswordParams struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	RememberMe      bool
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Priority    string
	DueDate     string
	Completed   bool
}

type UpdateTaskParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Priority    *string
	DueDate     *string
	Completed   *bool
}

type TaskFilter string

const (
	TaskFilterAll    TaskFilter = "all"
	TaskFilterToday  TaskFilter = "today"
	TaskFilterWeek   TaskFilter = "week"
	TaskFilterLow    TaskFilter = "low"
	TaskFilterMedium TaskFilter = "medium"
	TaskFilterHigh   TaskFilter = "high"
)

type TaskStatusFilter string

const (
	TaskStatusAll       TaskStatusFilter = "all"
	TaskStatusPending   TaskStatusFilter = "pending"
	TaskStatusCompleted TaskStatusFilter = "completed"
)

type TaskSort string

const (
	TaskSortNewest   TaskSort = "newest"
	TaskSortOldest   TaskSort = "oldest"
	TaskSortPriority TaskSort = "priority"
)

// ListTasksParams zero values mean all tasks, newest first.
type ListTasksParams struct {
	UserID string
	Filter TaskFilter
	Status TaskStatusFilter
	Sort   TaskSort
}

type TaskStats struct {
	Total                int
	Completed            int
	Pending              int
	CompletionPercentage int
	LowPriority          int
	MediumPriority       int
	HighPriority         int
}
