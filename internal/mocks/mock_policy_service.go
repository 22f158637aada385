package mocks

import (
	"github.com/you/healthrecords/domain"
)

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc    func(policy domain.Policy) error
	RemovePolicyFunc func(policy domain.Policy) error
	AuthorizeFunc    func(role domain.Role, path, method string) (bool, []string, error)
	GetPoliciesFunc  func() ([]domain.Policy, error)
	SeedDefaultsFunc func(policies []domain.Policy) error
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy adds a policy
func (m *MockPolicyService) AddPolicy(policy domain.Policy) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(policy)
	}
	return nil
}

// RemovePolicy removes a policy
func (m *MockPolicyService) RemovePolicy(policy domain.Policy) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(policy)
	}
	return nil
}

// Authorize checks a request
func (m *MockPolicyService) Authorize(role domain.Role, path, method string) (bool, []string, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(role, path, method)
	}
	// Default behavior: only admins pass
	if role != domain.RoleAdmin {
		return false, nil, nil
	}
	return true, []string{"*"}, nil
}

// GetPolicies lists policies
func (m *MockPolicyService) GetPolicies() ([]domain.Policy, error) {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return []domain.Policy{}, nil
}

// SeedDefaults installs default policies
func (m *MockPolicyService) SeedDefaults(policies []domain.Policy) error {
	if m.SeedDefaultsFunc != nil {
		return m.SeedDefaultsFunc(policies)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
