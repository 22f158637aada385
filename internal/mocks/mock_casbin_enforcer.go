package mocks

import (
	"github.com/casbin/casbin/v2/util"
	"github.com/you/healthrecords/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Without overrides it keeps policies in memory and matches them with the
// same keyMatch2 / regexMatch operators as the real model.
type MockCasbinEnforcer struct {
	AddPolicyFunc         func(params ...interface{}) (bool, error)
	HasPolicyFunc         func(params ...interface{}) (bool, error)
	RemovePolicyFunc      func(params ...interface{}) (bool, error)
	EnforceFunc           func(rvals ...interface{}) (bool, error)
	GetPolicyFunc         func() ([][]string, error)
	GetFilteredPolicyFunc func(fieldIndex int, fieldValues ...string) ([][]string, error)
	policies              [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with no policies
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{}
}

// AddPolicy adds a new policy rule. Like casbin, re-adding a stored row
// reports true.
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	row := toStrings(params)
	if m.indexOf(row) < 0 {
		m.policies = append(m.policies, row)
	}
	return true, nil
}

// HasPolicy reports whether the exact row is stored
func (m *MockCasbinEnforcer) HasPolicy(params ...interface{}) (bool, error) {
	if m.HasPolicyFunc != nil {
		return m.HasPolicyFunc(params...)
	}
	return m.indexOf(toStrings(params)) >= 0, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	i := m.indexOf(toStrings(params))
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

// Enforce checks if a request should be allowed
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req := toStrings(rvals)
	if len(req) < 3 {
		return false, nil
	}
	for _, p := range m.policies {
		if len(p) >= 3 && p[0] == req[0] && util.KeyMatch2(req[1], p[1]) && util.RegexMatch(req[2], p[2]) {
			return true, nil
		}
	}
	return false, nil
}

// GetPolicy returns all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	return m.copyPolicies(func([]string) bool { return true }), nil
}

// GetFilteredPolicy returns the policies whose fields from fieldIndex on equal fieldValues
func (m *MockCasbinEnforcer) GetFilteredPolicy(fieldIndex int, fieldValues ...string) ([][]string, error) {
	if m.GetFilteredPolicyFunc != nil {
		return m.GetFilteredPolicyFunc(fieldIndex, fieldValues...)
	}
	return m.copyPolicies(func(p []string) bool {
		for i, v := range fieldValues {
			if v == "" {
				continue
			}
			if fieldIndex+i >= len(p) || p[fieldIndex+i] != v {
				return false
			}
		}
		return true
	}), nil
}

// SetPolicies sets the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.policies = nil
	for _, p := range policies {
		m.policies = append(m.policies, append([]string(nil), p...))
	}
}

func (m *MockCasbinEnforcer) copyPolicies(keep func([]string) bool) [][]string {
	result := [][]string{}
	for _, p := range m.policies {
		if keep(p) {
			result = append(result, append([]string(nil), p...))
		}
	}
	return result
}

func (m *MockCasbinEnforcer) indexOf(row []string) int {
	for i, p := range m.policies {
		if len(p) != len(row) {
			continue
		}
		match := true
		for j := range p {
			if p[j] != row[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func toStrings(params []interface{}) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if s, ok := p.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
