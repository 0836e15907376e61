package services

import (
	"context"
	"errors"
	"time"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/auth"
	"nxq-backend/internal/cache"
	"nxq-backend/internal/config"
	"nxq-backend/internal/logger"
	"nxq-backend/internal/metrics"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"

	"github.com/rs/zerolog"
)

// AuthService validates logins, issues session tokens and tracks failed
// attempts and revoked sessions.
type AuthService struct {
	Users       *repositories.UserRepository
	JWT         *auth.JWTManager
	Attempts    cache.AttemptStore
	Revocations cache.RevocationStore
	maxAttempts int
	lockout     time.Duration
	log         zerolog.Logger
}

func NewAuthService(users *repositories.UserRepository, jwtManager *auth.JWTManager,
	attempts cache.AttemptStore, revocations cache.RevocationStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:       users,
		JWT:         jwtManager,
		Attempts:    attempts,
		Revocations: revocations,
		maxAttempts: cfg.Auth.MaxLoginAttempts,
		lockout:     time.Duration(cfg.Auth.LockoutMinutes) * time.Minute,
		log:         logger.For("AuthService"),
	}
}

func (s *AuthService) lockedErr() error {
	return &apperr.LockedError{Minutes: int(s.lockout / time.Minute)}
}

// Login checks the credentials of an active user. Unknown users and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	username, password, err := auth.SanitizeCredentials(req.Username, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	failures, err := s.Attempts.Failures(ctx, username)
	if err != nil {
		return nil, err
	}
	if s.maxAttempts > 0 && failures >= s.maxAttempts {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return nil, s.lockedErr()
	}

	user, err := s.Users.GetActiveByUsername(ctx, username)
	var nf *apperr.NotFoundError
	if err != nil && !errors.As(err, &nf) {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, s.recordFailure(ctx, username)
	}

	if err := s.Attempts.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login attempts")
	}
	if err := s.Users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("failed to update last login")
	}

	token, claims, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.log.Info().Str("username", username).Msg("user logged in")
	return &models.AuthResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) error {
	metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	n, err := s.Attempts.RecordFailure(ctx, username, s.lockout)
	if err != nil {
		return err
	}
	s.log.Warn().Str("username", username).Int("failures", n).Msg("failed login")
	if s.maxAttempts > 0 && n >= s.maxAttempts {
		return s.lockedErr()
	}
	return apperr.ErrUnauthorized
}

// Authenticate resolves a bearer token to its claims. Revoked tokens and
// tokens of deactivated users are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.JWT.ValidateToken(token)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperr.ErrUnauthorized
	}
	return claims, nil
}

// ValidateSession answers whether a stored token is still usable and, if so,
// returns the current user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.SessionResponse, error) {
	claims, err := s.Authenticate(ctx, token)
	if errors.Is(err, apperr.ErrUnauthorized) {
		return &models.SessionResponse{Valid: false}, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetActive(ctx, claims.UserID)
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return &models.SessionResponse{Valid: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.SessionResponse{Valid: true, User: user}, nil
}

// Logout revokes the token until it would have expired anyway. Invalid
// tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.JWT.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.Revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.log.Info().Str("username", claims.Username).Msg("user logged out")
	return nil
}
