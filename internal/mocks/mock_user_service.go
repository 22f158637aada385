package mocks

import (
	"context"

	"github.com/you/healthrecords/domain"
)

// MockUserService implements domain.UserService interface for testing
type MockUserService struct {
	CreateUserFunc     func(ctx context.Context, req *domain.UserRequest) (*domain.UserResponse, error)
	GetAllUsersFunc    func(ctx context.Context) ([]*domain.UserResponse, error)
	GetUsersByRoleFunc func(ctx context.Context, role string) ([]*domain.UserResponse, error)
	GetUserByIDFunc    func(ctx context.Context, id uint) (*domain.UserResponse, error)
	UpdateUserFunc     func(ctx context.Context, id uint, req *domain.UserRequest) (*domain.UserResponse, error)
	DeleteUserFunc     func(ctx context.Context, id uint) error
}

// NewMockUserService creates a new MockUserService with default behaviors
func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

// CreateUser registers a user
func (m *MockUserService) CreateUser(ctx context.Context, req *domain.UserRequest) (*domain.UserResponse, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, req)
	}
	return &domain.UserResponse{ID: 1, FullName: req.FullName, Email: req.Email, Role: domain.Role(req.Role)}, nil
}

// GetAllUsers lists every user
func (m *MockUserService) GetAllUsers(ctx context.Context) ([]*domain.UserResponse, error) {
	if m.GetAllUsersFunc != nil {
		return m.GetAllUsersFunc(ctx)
	}
	return []*domain.UserResponse{}, nil
}

// GetUsersByRole lists users with a role
func (m *MockUserService) GetUsersByRole(ctx context.Context, role string) ([]*domain.UserResponse, error) {
	if m.GetUsersByRoleFunc != nil {
		return m.GetUsersByRoleFunc(ctx, role)
	}
	return []*domain.UserResponse{}, nil
}

// GetUserByID fetches one user
func (m *MockUserService) GetUserByID(ctx context.Context, id uint) (*domain.UserResponse, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, domain.NotFoundf("User not found with id: %d", id)
}

// UpdateUser replaces a user's fields
func (m *MockUserService) UpdateUser(ctx context.Context, id uint, req *domain.UserRequest) (*domain.UserResponse, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, req)
	}
	return nil, domain.NotFoundf("User not found with id: %d", id)
}

// DeleteUser removes a user
func (m *MockUserService) DeleteUser(ctx context.Context, id uint) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserService = (*MockUserService)(nil)
