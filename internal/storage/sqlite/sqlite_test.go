package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, id, email string) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &models.User{ID: id, Name: "User " + id, Email: email, Password: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Users().CreateUser(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := seedUser(t, s, "u1", "ann@x.com")

	byID, err := s.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(created, byID))

	byEmail, err := s.Users().GetUserByEmail(ctx, "ANN@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = s.Users().GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepository_EmailUniqueIgnoresCase(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "u1", "ann@x.com")

	err := s.Users().CreateUser(context.Background(), &models.User{
		ID: "u2", Name: "Other", Email: "Ann@X.com", Password: "hash",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1", "ann@x.com")
	seedUser(t, s, "u2", "bob@x.com")

	updated, err := s.Users().UpdateUserProfile(ctx, "u1", "Annie", "annie@x.com", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "annie@x.com", updated.Email)

	_, err = s.Users().UpdateUserProfile(ctx, "u1", "Annie", "BOB@x.com", time.Now())
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = s.Users().UpdateUserProfile(ctx, "ghost", "Ghost", "ghost@x.com", time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepository_UpdatePasswordBumpsVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u1", "ann@x.com")

	v1, err := s.Users().UpdateUserPassword(ctx, "u1", "hash-2", time.Now())
	require.NoError(t, err)
	v2, err := s.Users().UpdateUserPassword(ctx, "u1", "hash-3", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)

	user, err := s.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash-3", user.Password)

	_, err = s.Users().UpdateUserPassword(ctx, "ghost", "hash", time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func newTask(id, userID string, created time.Time) *models.Task {
	return &models.Task{
		ID:        id,
		UserID:    userID,
		Title:     "Task " + id,
		Priority:  models.PriorityMedium,
		DueDate:   time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestTaskRepository_OwnershipScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "a", "a@x.com")
	seedUser(t, s, "b", "b@x.com")

	now := time.Now().UTC().Truncate(time.Millisecond)
	task := newTask("t1", "a", now)
	require.NoError(t, s.Tasks().CreateTask(ctx, task))

	got, err := s.Tasks().GetTask(ctx, "a", "t1")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(task, got))

	_, err = s.Tasks().GetTask(ctx, "b", "t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	listB, err := s.Tasks().ListTasks(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, listB)

	stolen := *task
	stolen.UserID = "b"
	stolen.Title = "hijacked"
	assert.ErrorIs(t, s.Tasks().UpdateTask(ctx, &stolen), storage.ErrNotFound)
	assert.ErrorIs(t, s.Tasks().DeleteTask(ctx, "b", "t1"), storage.ErrNotFound)

	got, err = s.Tasks().GetTask(ctx, "a", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Task t1", got.Title)
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "a", "a@x.com")

	now := time.Now().UTC()
	task := newTask("t1", "a", now)
	require.NoError(t, s.Tasks().CreateTask(ctx, task))

	task.Completed = true
	task.Priority = models.PriorityHigh
	task.Description = "details"
	require.NoError(t, s.Tasks().UpdateTask(ctx, task))

	got, err := s.Tasks().GetTask(ctx, "a", "t1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, "details", got.Description)

	require.NoError(t, s.Tasks().DeleteTask(ctx, "a", "t1"))
	assert.ErrorIs(t, s.Tasks().DeleteTask(ctx, "a", "t1"), storage.ErrNotFound)
}

func TestTaskRepository_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "a", "a@x.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Tasks().CreateTask(ctx, newTask("old", "a", base)))
	require.NoError(t, s.Tasks().CreateTask(ctx, newTask("new", "a", base.Add(time.Hour))))

	tasks, err := s.Tasks().ListTasks(ctx, "a")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "new", tasks[0].ID)
	assert.Equal(t, "old", tasks[1].ID)
}

func TestTaskRepository_RequiresExistingOwner(t *testing.T) {
	s := newTestStore(t)
	err := s.Tasks().CreateTask(context.Background(), newTask("t1", "nobody", time.Now()))
	assert.Error(t, err)
}
