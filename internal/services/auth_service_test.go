package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	registered := env.register(t, "  Ann ", "Ann@X.com ")
	assert.Equal(t, "Ann", registered.User.Name)
	assert.Equal(t, "ann@x.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)
	assert.NotEqual(t, "password1", registered.User.Password)

	loggedIn, err := env.auth.Login(ctx, LoginParams{Email: "ANN@x.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.Equal(t, env.clock.Now().Add(24*time.Hour), loggedIn.TokenExpiresAt)

	session, err := env.sessions.Authenticate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)
	assert.False(t, session.RememberMe)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	for name, params := range map[string]RegisterParams{
		"missing name":     {Email: "ann@x.com", Password: "password1"},
		"blank name":       {Name: "   ", Email: "ann@x.com", Password: "password1"},
		"missing email":    {Name: "Ann", Password: "password1"},
		"missing password": {Name: "Ann", Email: "ann@x.com"},
		"malformed email":  {Name: "Ann", Email: "ann.x.com", Password: "password1"},
		"short password":   {Name: "Ann", Email: "ann@x.com", Password: "pass123"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), params)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := env.store.Users().GetUserByEmail(context.Background(), "ann@x.com")
	assert.Error(t, err, "no user must be created by a rejected registration")
}

func TestAuthService_RegisterDuplicateEmailAnyCase(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	first := env.register(t, "Ann", "ann@x.com")

	for _, email := range []string{"ann@x.com", "ANN@X.COM", "Ann@x.Com"} {
		_, err := env.auth.Register(ctx, RegisterParams{Name: "Other", Email: email, Password: "password2"})
		require.ErrorIs(t, err, ErrUserAlreadyExists, email)
		assert.Equal(t, "User already exists", err.Error())
	}

	user, err := env.store.Users().GetUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, user.ID)
	assert.Equal(t, "Ann", user.Name)
}

func TestAuthService_LoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, "Ann", "ann@x.com")

	_, unknownErr := env.auth.Login(ctx, LoginParams{Email: "bob@x.com", Password: "password1"})
	_, wrongErr := env.auth.Login(ctx, LoginParams{Email: "ann@x.com", Password: "password2"})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err := env.auth.Login(ctx, LoginParams{Email: "ann@x.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_RememberMeExtendsLifetime(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, "Ann", "ann@x.com")

	res, err := env.auth.Login(ctx, LoginParams{Email: "ann@x.com", Password: "password1", RememberMe: true})
	require.NoError(t, err)
	assert.Equal(t, env.clock.Now().Add(30*24*time.Hour), res.TokenExpiresAt)

	env.clock.Advance(29 * 24 * time.Hour)
	session, err := env.sessions.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, session.RememberMe)
}

func TestAuthService_GetUser(t *testing.T) {
	env := newTestEnv(t, nil)
	registered := env.register(t, "Ann", "ann@x.com")

	user, err := env.auth.GetUser(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)

	_, err = env.auth.GetUser(context.Background(), "0198f5c0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	ann := env.register(t, "Ann", "ann@x.com")
	env.register(t, "Bob", "bob@x.com")

	updated, err := env.auth.UpdateProfile(ctx, UpdateProfileParams{UserID: ann.User.ID, Name: "Annie", Email: "Annie@X.com"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "annie@x.com", updated.Email)

	_, err = env.auth.UpdateProfile(ctx, UpdateProfileParams{UserID: ann.User.ID, Name: "Annie", Email: "BOB@x.com"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, "Email already in use by another account", err.Error())

	_, err = env.auth.UpdateProfile(ctx, UpdateProfileParams{UserID: ann.User.ID, Name: "", Email: "annie@x.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.auth.UpdateProfile(ctx, UpdateProfileParams{UserID: ann.User.ID, Name: "Annie", Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Keeping one's own email is not a conflict.
	_, err = env.auth.UpdateProfile(ctx, UpdateProfileParams{UserID: ann.User.ID, Name: "Ann", Email: "annie@x.com"})
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	ann := env.register(t, "Ann", "ann@x.com")

	res, err := env.auth.ChangePassword(ctx, ChangePasswordParams{
		UserID:          ann.User.ID,
		CurrentPassword: "password1",
		NewPassword:     "password2",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.User.TokenVersion)

	_, err = env.auth.Login(ctx, LoginParams{Email: "ann@x.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, LoginParams{Email: "ann@x.com", Password: "password2"})
	assert.NoError(t, err)
}

func TestAuthService_ChangePasswordRejectionsKeepState(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	ann := env.register(t, "Ann", "ann@x.com")

	_, err := env.auth.ChangePassword(ctx, ChangePasswordParams{
		UserID:          ann.User.ID,
		CurrentPassword: "password1",
		NewPassword:     "short",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.auth.ChangePassword(ctx, ChangePasswordParams{
		UserID:          ann.User.ID,
		CurrentPassword: "wrong-password",
		NewPassword:     "password2",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.ChangePassword(ctx, ChangePasswordParams{UserID: ann.User.ID, NewPassword: "password2"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.auth.Login(ctx, LoginParams{Email: "ann@x.com", Password: "password1"})
	assert.NoError(t, err)
	_, err = env.sessions.Authenticate(ctx, ann.Token)
	assert.NoError(t, err, "rejected changes must not revoke tokens")
}

func TestAuthService_ChangePasswordRevokesOutstandingTokens(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	ann := env.register(t, "Ann", "ann@x.com")

	other, err := env.auth.Login(ctx, LoginParams{Email: "ann@x.com", Password: "password1"})
	require.NoError(t, err)

	res, err := env.auth.ChangePassword(ctx, ChangePasswordParams{
		UserID:          ann.User.ID,
		CurrentPassword: "password1",
		NewPassword:     "password2",
	})
	require.NoError(t, err)

	for _, token := range []string{ann.Token, other.Token} {
		_, err = env.sessions.Authenticate(ctx, token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	}

	session, err := env.sessions.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, ann.User.ID, session.User.ID)
}
