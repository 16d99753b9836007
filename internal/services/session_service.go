package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/storage"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	TokenVersion int64 `json:"ver"`
	RememberMe   bool  `json:"rem,omitempty"`
}

type sessionServiceImpl struct {
	logger        zerolog.Logger
	users         storage.UserRepository
	issuer        string
	signingKey    []byte
	ttl           time.Duration
	rememberMeTTL time.Duration
	now           func() time.Time
}

type SessionConfig struct {
	Issuer        string
	SigningKey    []byte
	TTL           time.Duration
	RememberMeTTL time.Duration
}

// NewSessionService uses time.Now when now is nil.
func NewSessionService(
	logger zerolog.Logger,
	users storage.UserRepository,
	cfg SessionConfig,
	now func() time.Time,
) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionServiceImpl{
		logger:        logger,
		users:         users,
		issuer:        cfg.Issuer,
		signingKey:    cfg.SigningKey,
		ttl:           cfg.TTL,
		rememberMeTTL: cfg.RememberMeTTL,
		now:           now,
	}
}

func (s *sessionServiceImpl) Issue(user *models.User, rememberMe bool) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	ttl := s.ttl
	if rememberMe {
		ttl = s.rememberMeTTL
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TokenVersion: user.TokenVersion,
		RememberMe:   rememberMe,
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *sessionServiceImpl) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		s.logger.Debug().Msg("session token missing")
		return nil, ErrInvalidSession
	}

	claims, err := s.parseToken(token)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("rejected session token")
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Str("user_id", claims.Subject).
				Msg("session user no longer exists")
			return nil, ErrInvalidSession
		}

		s.logger.Error().
			Err(err).
			Str("user_id", claims.Subject).
			Msg("failed to resolve session user")
		return nil, err
	}

	if user.TokenVersion != claims.TokenVersion {
		s.logger.Warn().
			Str("user_id", user.ID).
			Int64("token_version", claims.TokenVersion).
			Int64("current_version", user.TokenVersion).
			Msg("session token revoked")
		return nil, ErrInvalidSession
	}

	return &models.Session{
		User:       user,
		RememberMe: claims.RememberMe,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

func (s *sessionServiceImpl) parseToken(token string) (*sessionClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("malformed token claims")
	}
	return claims, nil
}
