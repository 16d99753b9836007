package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/storage"
)

type TaskRepository struct {
	db *sql.DB
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id, user_id, title, description, priority, due_date, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err := r.db.ExecContext(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.DueDate.Format(dateLayout),
		task.Completed,
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id, user_id, title, description, priority, due_date, completed, created_at, updated_at
FROM tasks WHERE id = ? AND user_id = ?
`
	task, err := scanTask(r.db.QueryRowContext(ctx, selectTaskQuery, taskID, userID))
	if err != nil {
		return nil, wrapNoRows(err, "select task")
	}
	return task, nil
}

func (r *TaskRepository) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT id, user_id, title, description, priority, due_date, completed, created_at, updated_at
FROM tasks WHERE user_id = ?
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = ?, description = ?, priority = ?, due_date = ?, completed = ?, updated_at = ?
WHERE id = ? AND user_id = ?
`
	res, err := r.db.ExecContext(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		string(task.Priority),
		task.DueDate.Format(dateLayout),
		task.Completed,
		formatTime(task.UpdatedAt),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res)
}

func (r *TaskRepository) DeleteTask(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks WHERE id = ? AND user_id = ?
`
	res, err := r.db.ExecContext(ctx, deleteTaskQuery, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := new(models.Task)
	var priority, dueDate, createdAt, updatedAt string
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&priority,
		&dueDate,
		&task.Completed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Priority = models.Priority(priority)

	task.DueDate, err = time.Parse(dateLayout, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse due_date: %w", err)
	}
	task.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	task.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return task, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
