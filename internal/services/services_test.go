package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/smart-task/internal/password"
	"github.com/adanyl0v/smart-task/internal/storage/sqlite"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

var testArgon2Params = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store    *sqlite.Store
	clock    *testClock
	sessions SessionService
	auth     AuthService
	tasks    TaskService
}

func newTestEnv(t *testing.T, loc *time.Location) *testEnv {
	t.Helper()

	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := newTestClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	logger := zerolog.Nop()

	sessions := NewSessionService(logger, store.Users(), SessionConfig{
		Issuer:        "smart-task-test",
		SigningKey:    []byte(testSigningKey),
		TTL:           24 * time.Hour,
		RememberMeTTL: 30 * 24 * time.Hour,
	}, clock.Now)

	return &testEnv{
		store:    store,
		clock:    clock,
		sessions: sessions,
		auth:     NewAuthService(logger, store.Users(), password.NewArgon2id(testArgon2Params), sessions, clock.Now),
		tasks:    NewTaskService(logger, store.Tasks(), loc, clock.Now),
	}
}

func (e *testEnv) register(t *testing.T, name, email string) *LoginResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterParams{
		Name:     name,
		Email:    email,
		Password: "password1",
	})
	require.NoError(t, err)
	return res
}
