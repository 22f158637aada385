package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/you/healthrecords/domain"
)

const invalidCredentials = "Invalid email or password"

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	audit       domain.AuditLogger
}

// NewAuthService creates a new auth service. sessionRepo and tokenSvc may be
// nil, in which case Login only verifies credentials and issues no token.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	audit domain.AuditLogger,
) domain.AuthService {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		audit:       audit,
	}
}

// Login implements domain.AuthService. An unknown email and a wrong password
// fail identically.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.loginFailed(ctx, 0, email, "unknown email")
			return nil, domain.NotFoundf(invalidCredentials)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Passwords are stored and compared as plain text.
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		s.loginFailed(ctx, user.ID, email, "password mismatch")
		return nil, domain.NotFoundf(invalidCredentials)
	}

	result := &domain.LoginResult{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}

	if s.sessionRepo != nil && s.tokenSvc != nil {
		now := time.Now()
		session := &domain.Session{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Role:      user.Role,
			CreatedAt: now,
			ExpiresAt: now.Add(s.tokenSvc.AccessTTL()),
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate access token: %w", err)
		}
		result.AccessToken = accessToken
		result.SessionID = session.ID
		result.ExpiresIn = int64(s.tokenSvc.AccessTTL().Seconds())
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithEmail(user.Email).
		WithSession(result.SessionID).
		WithMetadata("role", string(user.Role)))

	return result, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if s.sessionRepo == nil || sessionID == "" {
		return nil
	}

	var userID uint
	if session, err := s.sessionRepo.FindByID(ctx, sessionID); err == nil {
		userID = session.UserID
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, userID).WithSession(sessionID))
	return nil
}

// Me implements domain.AuthService
func (s *AuthServiceImpl) Me(ctx context.Context, userID uint) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("User not found with id: %d", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return domain.ToUserResponse(user), nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, userID uint, email, reason string) {
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, userID).
		WithEmail(email).
		WithMetadata("reason", reason).
		WithError(errors.New(invalidCredentials)))
}
