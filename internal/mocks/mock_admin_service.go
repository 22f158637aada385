package mocks

import (
	"context"

	"github.com/you/healthrecords/domain"
)

// MockAdminService implements domain.AdminService interface for testing
type MockAdminService struct {
	GetStatsFunc func(ctx context.Context) (*domain.Stats, error)
}

// NewMockAdminService creates a new MockAdminService with default behaviors
func NewMockAdminService() *MockAdminService {
	return &MockAdminService{}
}

// GetStats returns the dashboard counters
func (m *MockAdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx)
	}
	return &domain.Stats{}, nil
}

// Compile-time interface compliance verification
var _ domain.AdminService = (*MockAdminService)(nil)
