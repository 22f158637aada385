package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/healthrecords/domain"
	"gorm.io/gorm"
)

// PolicyModel is the RBAC model: subjects are "role_<ROLE>", objects keyMatch2
// path patterns, actions method regexes. The fourth policy column carries the
// field rule evaluated by the HTTP layer.
const PolicyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, rule

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies is installed into an empty policy table
var DefaultPolicies = []domain.Policy{
	{Role: domain.RoleAdmin, Path: "/api/*", Method: "GET|POST|PUT|DELETE", Rule: "*"},

	{Role: domain.RoleDoctor, Path: "/api/auth/*", Method: "GET|POST", Rule: "*"},
	{Role: domain.RoleDoctor, Path: "/api/users", Method: "GET", Rule: "*"},
	{Role: domain.RoleDoctor, Path: "/api/users/:id", Method: "GET", Rule: "*"},
	{Role: domain.RoleDoctor, Path: "/api/visits", Method: "GET|POST", Rule: "*"},
	{Role: domain.RoleDoctor, Path: "/api/visits/:id", Method: "GET", Rule: "*"},
	{Role: domain.RoleDoctor, Path: "/api/visits/patient/:id", Method: "GET", Rule: "*"},
	{Role: domain.RoleDoctor, Path: "/api/visits/doctor/:id", Method: "GET", Rule: "*"},

	{Role: domain.RolePatient, Path: "/api/auth/*", Method: "GET|POST", Rule: "*"},
	{Role: domain.RolePatient, Path: "/api/users/:id", Method: "GET", Rule: "path.id==token.user_id"},
	{Role: domain.RolePatient, Path: "/api/visits/patient/:id", Method: "GET", Rule: "path.id==token.user_id"},
}

// NewEnforcer builds a casbin enforcer whose policies persist in the
// casbin_rule table of db.
func NewEnforcer(db *gorm.DB) (*casbin.Enforcer, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	m, err := model.NewModelFromString(PolicyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	return e, nil
}
