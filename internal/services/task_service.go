package services

import (
	"cmp"
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskRepository
	// loc decides which calendar day is "today".
	loc *time.Location
	now func() time.Time
}

// NewTaskService uses UTC when loc is nil and time.Now when now is nil.
func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
	loc *time.Location,
	now func() time.Time,
) TaskService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
		loc:    loc,
		now:    now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title, err := parseTitle(params.Title)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityLow
	if strings.TrimSpace(params.Priority) != "" {
		priority, err = models.ParsePriority(params.Priority)
		if err != nil {
			return nil, newError(ErrInvalidInput, "Priority must be Low, Medium or High")
		}
	}

	if strings.TrimSpace(params.DueDate) == "" {
		return nil, newError(ErrInvalidInput, "Due date is required")
	}
	dueDate, err := parseDueDate(params.DueDate)
	if err != nil {
		return nil, err
	}
	if dueDate.Before(s.today()) {
		return nil, newError(ErrInvalidInput, "Due date cannot be in the past.")
	}

	now := s.now().UTC()
	task := &models.Task{
		UserID:      params.UserID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		DueDate:     dueDate,
		Completed:   params.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	id, ok := parseTaskID(taskID)
	if !ok {
		return nil, newError(ErrTaskNotFound, "Task not found")
	}

	task, err := s.tasks.GetTask(ctx, userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().
				Str("task_id", id).
				Str("user_id", userID).
				Msg("task not found")
			return nil, newError(ErrTaskNotFound, "Task not found")
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	filter, status, order, err := normalizeListParams(params)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(ctx, params.UserID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to select tasks by user id")
		return nil, err
	}

	today := s.today()
	weekEnd := today.AddDate(0, 0, 7)
	filtered := make([]*models.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesFilter(task, filter, today, weekEnd) && matchesStatus(task, status) {
			filtered = append(filtered, task)
		}
	}
	sortTasks(filtered, order)

	s.logger.Debug().
		Str("user_id", params.UserID).
		Str("filter", string(filter)).
		Str("status", string(status)).
		Str("sort", string(order)).
		Int("count", len(filtered)).
		Msg("listed tasks")
	return filtered, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.GetTask(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title, err = parseTitle(*params.Title)
		if err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		task.Description = strings.TrimSpace(*params.Description)
	}
	if params.Priority != nil {
		task.Priority, err = models.ParsePriority(*params.Priority)
		if err != nil {
			return nil, newError(ErrInvalidInput, "Priority must be Low, Medium or High")
		}
	}
	if params.DueDate != nil {
		dueDate, err := parseDueDate(*params.DueDate)
		if err != nil {
			return nil, err
		}
		// An unchanged date that has since passed is still accepted.
		if !dueDate.Equal(task.DueDate) && dueDate.Before(s.today()) {
			return nil, newError(ErrInvalidInput, "Due date cannot be in the past.")
		}
		task.DueDate = dueDate
	}
	if params.Completed != nil {
		task.Completed = *params.Completed
	}

	return s.saveTask(ctx, task)
}

func (s *taskServiceImpl) ToggleTaskCompletion(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	return s.saveTask(ctx, task)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	id, ok := parseTaskID(taskID)
	if !ok {
		return newError(ErrTaskNotFound, "Task not found")
	}

	err := s.tasks.DeleteTask(ctx, userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().
				Str("task_id", id).
				Str("user_id", userID).
				Msg("task not found")
			return newError(ErrTaskNotFound, "Task not found")
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", id).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) GetTaskStats(ctx context.Context, userID string) (*TaskStats, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}

	stats := &TaskStats{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
		}
		switch task.Priority {
		case models.PriorityLow:
			stats.LowPriority++
		case models.PriorityMedium:
			stats.MediumPriority++
		case models.PriorityHigh:
			stats.HighPriority++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionPercentage = int(math.Round(float64(stats.Completed) * 100 / float64(stats.Total)))
	}
	return stats, nil
}

func (s *taskServiceImpl) saveTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.UpdatedAt = s.now().UTC()

	err := s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(ErrTaskNotFound, "Task not found")
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) today() time.Time {
	return models.DateOf(s.now().In(s.loc))
}

func parseTaskID(taskID string) (string, bool) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func parseTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newError(ErrInvalidInput, "Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", newError(ErrInvalidInput, "Title is too long")
	}
	return title, nil
}

// parseDueDate accepts a bare date or an RFC 3339 timestamp, in which
// case the calendar date written in its own offset is kept.
func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.DateOf(t), nil
	}
	return time.Time{}, newError(ErrInvalidInput, "Invalid due date")
}

func normalizeListParams(params ListTasksParams) (TaskFilter, TaskStatusFilter, TaskSort, error) {
	filter := TaskFilter(strings.ToLower(string(params.Filter)))
	switch filter {
	case "":
		filter = TaskFilterAll
	case TaskFilterAll, TaskFilterToday, TaskFilterWeek,
		TaskFilterLow, TaskFilterMedium, TaskFilterHigh:
	default:
		return "", "", "", newError(ErrInvalidInput, "Invalid filter")
	}

	status := TaskStatusFilter(strings.ToLower(string(params.Status)))
	switch status {
	case "":
		status = TaskStatusAll
	case TaskStatusAll, TaskStatusPending, TaskStatusCompleted:
	default:
		return "", "", "", newError(ErrInvalidInput, "Invalid status")
	}

	order := TaskSort(strings.ToLower(string(params.Sort)))
	switch order {
	case "":
		order = TaskSortNewest
	case TaskSortNewest, TaskSortOldest, TaskSortPriority:
	default:
		return "", "", "", newError(ErrInvalidInput, "Invalid sort order")
	}

	return filter, status, order, nil
}

func matchesFilter(task *models.Task, filter TaskFilter, today, weekEnd time.Time) bool {
	switch filter {
	case TaskFilterToday:
		return task.DueDate.Equal(today)
	case TaskFilterWeek:
		return !task.DueDate.Before(today) && !task.DueDate.After(weekEnd)
	case TaskFilterLow:
		return task.Priority == models.PriorityLow
	case TaskFilterMedium:
		return task.Priority == models.PriorityMedium
	case TaskFilterHigh:
		return task.Priority == models.PriorityHigh
	default:
		return true
	}
}

func matchesStatus(task *models.Task, status TaskStatusFilter) bool {
	switch status {
	case TaskStatusPending:
		return !task.Completed
	case TaskStatusCompleted:
		return task.Completed
	default:
		return true
	}
}

func sortTasks(tasks []*models.Task, order TaskSort) {
	newest := func(a, b *models.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	}

	switch order {
	case TaskSortOldest:
		slices.SortFunc(tasks, func(a, b *models.Task) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	case TaskSortPriority:
		slices.SortFunc(tasks, func(a, b *models.Task) int {
			if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
				return c
			}
			return newest(a, b)
		})
	default:
		slices.SortFunc(tasks, newest)
	}
}
