package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/util"
	"github.com/you/healthrecords/domain"
)

const subjectPrefix = "role_"

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(policy domain.Policy) error {
	row, err := toRow(policy)
	if err != nil {
		return err
	}
	// AddPolicy reports success for a row that is already stored
	exists, err := p.enforcer.HasPolicy(row...)
	if err != nil {
		return fmt.Errorf("failed to look up policy: %w", err)
	}
	if exists {
		return domain.InvalidArgumentf("Policy already exists")
	}
	if _, err := p.enforcer.AddPolicy(row...); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(policy domain.Policy) error {
	row, err := toRow(policy)
	if err != nil {
		return err
	}
	exists, err := p.enforcer.HasPolicy(row...)
	if err != nil {
		return fmt.Errorf("failed to look up policy: %w", err)
	}
	if !exists {
		return domain.InvalidArgumentf("Policy does not exist")
	}
	if _, err := p.enforcer.RemovePolicy(row...); err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

// Authorize implements domain.PolicyService. Every matching row
// contributes its rule, in storage order.
func (p *PolicyServiceImpl) Authorize(role domain.Role, path, method string) (bool, []string, error) {
	subject := subjectPrefix + string(role)
	allowed, err := p.enforcer.Enforce(subject, path, method)
	if err != nil {
		return false, nil, fmt.Errorf("failed to enforce policy: %w", err)
	}
	if !allowed {
		return false, nil, nil
	}

	// Enforce does not report which rows matched
	rows, err := p.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return false, nil, fmt.Errorf("failed to get policies for %s: %w", subject, err)
	}
	var rules []string
	for _, row := range rows {
		if len(row) < 3 || !util.KeyMatch2(path, row[1]) || !util.RegexMatch(method, row[2]) {
			continue
		}
		if len(row) > 3 && row[3] != "" {
			rules = append(rules, row[3])
		} else {
			rules = append(rules, "*")
		}
	}
	if len(rules) == 0 {
		rules = []string{"*"}
	}
	return true, rules, nil
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() ([]domain.Policy, error) {
	rows, err := p.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	policies := make([]domain.Policy, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		policy := domain.Policy{
			Role:   domain.Role(strings.TrimPrefix(row[0], subjectPrefix)),
			Path:   row[1],
			Method: row[2],
			Rule:   "*",
		}
		if len(row) > 3 && row[3] != "" {
			policy.Rule = row[3]
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

// SeedDefaults implements domain.PolicyService
func (p *PolicyServiceImpl) SeedDefaults(policies []domain.Policy) error {
	existing, err := p.enforcer.GetPolicy()
	if err != nil {
		return fmt.Errorf("failed to list policies: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, policy := range policies {
		if err := p.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

func toRow(policy domain.Policy) ([]interface{}, error) {
	role, err := domain.ParseRole(string(policy.Role))
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(policy.Path)
	method := strings.TrimSpace(policy.Method)
	if path == "" || method == "" {
		return nil, domain.InvalidArgumentf("Policy path and method are required")
	}
	rule := strings.TrimSpace(policy.Rule)
	if rule == "" {
		rule = "*"
	}
	return []interface{}{subjectPrefix + string(role), path, method, rule}, nil
}
