package mocks

import (
	"context"

	"github.com/you/healthrecords/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	LoginFunc  func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	LogoutFunc func(ctx context.Context, sessionID string) error
	MeFunc     func(ctx context.Context, userID uint) (*domain.UserResponse, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: credentials rejected
	return nil, domain.NotFoundf("Invalid email or password")
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// Me returns the current user
func (m *MockAuthService) Me(ctx context.Context, userID uint) (*domain.UserResponse, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, userID)
	}
	return nil, domain.NotFoundf("User not found with id: %d", userID)
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
