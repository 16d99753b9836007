package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/password"
	"github.com/adanyl0v/smart-task/internal/storage"
)

type authServiceImpl struct {
	logger   zerolog.Logger
	users    storage.UserRepository
	hasher   password.Hasher
	sessions SessionService
	now      func() time.Time

	// dummyHash is compared against when the email is unknown so that
	// both login failures take about the same time.
	dummyHash string
}

// NewAuthService uses time.Now when now is nil.
func NewAuthService(
	logger zerolog.Logger,
	users storage.UserRepository,
	hasher password.Hasher,
	sessions SessionService,
	now func() time.Time,
) AuthService {
	if now == nil {
		now = time.Now
	}

	dummyHash, err := hasher.Hash("smart-task-dummy-password")
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to prepare dummy password hash")
	}

	return &authServiceImpl{
		logger:    logger,
		users:     users,
		hasher:    hasher,
		sessions:  sessions,
		now:       now,
		dummyHash: dummyHash,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*LoginResult, error) {
	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)
	if name == "" || email == "" || params.Password == "" {
		return nil, newError(ErrInvalidInput, "All fields are required")
	}
	if !isValidName(name) {
		return nil, newError(ErrInvalidInput, "Name is too long")
	}
	if !isValidEmail(email) {
		return nil, newError(ErrInvalidInput, "Invalid email format")
	}
	if err := checkPasswordLength(params.Password); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := models.User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	user.Password, err = s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	err = s.users.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Debug().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, newError(ErrUserAlreadyExists, "User already exists")
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create user")
		return nil, err
	}

	token, expiresAt, err := s.sessions.Issue(&user, params.RememberMe)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to issue session token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return &LoginResult{
		User:           &user,
		Token:          token,
		TokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	email := normalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, newError(ErrInvalidInput, "Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if s.dummyHash != "" {
				_, _ = s.hasher.Compare(params.Password, s.dummyHash)
			}
			s.logger.Debug().
				Str("email", email).
				Msg("login for unknown email")
			return nil, newError(ErrInvalidCredentials, "Invalid credentials")
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}

	match, err := s.hasher.Compare(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Debug().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}

	token, expiresAt, err := s.sessions.Issue(user, params.RememberMe)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to issue session token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Bool("remember_me", params.RememberMe).
		Msg("logged in")
	return &LoginResult{
		User:           user,
		Token:          token,
		TokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(ErrUserNotFound, "User not found")
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}
	return user, nil
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)
	if !isValidName(name) || !isValidEmail(email) {
		return nil, newError(ErrInvalidInput, "Valid name and email required")
	}

	user, err := s.users.UpdateUserProfile(ctx, params.UserID, name, email, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			s.logger.Debug().
				Str("user_id", params.UserID).
				Str("email", email).
				Msg("email already in use")
			return nil, newError(ErrUserAlreadyExists, "Email already in use by another account")
		case errors.Is(err, storage.ErrNotFound):
			return nil, newError(ErrUserNotFound, "User not found")
		}

		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to update user profile")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, params ChangePasswordParams) (*LoginResult, error) {
	if params.CurrentPassword == "" || checkPasswordLength(params.NewPassword) != nil {
		return nil, newError(ErrInvalidInput, "Password invalid or too short")
	}

	user, err := s.GetUser(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	match, err := s.hasher.Compare(params.CurrentPassword, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Debug().
			Str("user_id", user.ID).
			Msg("current password does not match")
		return nil, newError(ErrInvalidCredentials, "Current password incorrect")
	}

	passwordHash, err := s.hasher.Hash(params.NewPassword)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	now := s.now().UTC()
	version, err := s.users.UpdateUserPassword(ctx, user.ID, passwordHash, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(ErrUserNotFound, "User not found")
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update password")
		return nil, err
	}
	user.Password = passwordHash
	user.TokenVersion = version
	user.UpdatedAt = now

	token, expiresAt, err := s.sessions.Issue(user, params.RememberMe)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to issue session token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Int64("token_version", version).
		Msg("changed password")
	return &LoginResult{
		User:           user,
		Token:          token,
		TokenExpiresAt: expiresAt,
	}, nil
}
