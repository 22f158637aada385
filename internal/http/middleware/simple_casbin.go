package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/http/handlers"
)

// CasbinMiddleware defines the interface for Casbin authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// SimpleCasbinMW authorizes requests against role policies and then checks
// the field rules of the matched policies.
// Rule format: "source.field==token.claim", conditions joined with "&&".
type SimpleCasbinMW struct {
	policySvc domain.PolicyService
	audit     domain.AuditLogger
}

// NewSimpleCasbinMW creates a new SimpleCasbinMW instance
func NewSimpleCasbinMW(policySvc domain.PolicyService, audit domain.AuditLogger) *SimpleCasbinMW {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &SimpleCasbinMW{policySvc: policySvc, audit: audit}
}

// Enforce returns the Casbin authorization middleware
func (mw *SimpleCasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		_, userExists := c.Get("user_id")
		userRole, roleExists := c.Get("user_role")
		if !userExists || !roleExists {
			handlers.WriteError(c, http.StatusUnauthorized, "User ID or role not found in token")
			return
		}
		role, _ := userRole.(string)

		// parameterized route, so /api/users/:id matches policies as written
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		allowed, rules, err := mw.policySvc.Authorize(domain.Role(role), path, method)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", path).Msg("authorization check failed")
			handlers.WriteError(c, http.StatusInternalServerError, "Authorization check failed")
			return
		}
		if !allowed {
			mw.deny(c, role, path, "no matching policy")
			handlers.WriteError(c, http.StatusForbidden, "Access denied")
			return
		}

		valid, err := mw.anyRuleHolds(c, rules, extractTokenClaims(c))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Strs("rules", rules).Msg("invalid policy rule")
			handlers.WriteError(c, http.StatusInternalServerError, "Authorization check failed")
			return
		}
		if !valid {
			mw.deny(c, role, path, strings.Join(rules, " || "))
			handlers.WriteError(c, http.StatusForbidden, "Request values do not match token claims")
			return
		}

		c.Next()
	})
}

func (mw *SimpleCasbinMW) deny(c *gin.Context, role, path, reason string) {
	event := domain.NewAuditEvent(domain.AccessDeniedEvent, 0).
		WithMetadata("role", role).
		WithMetadata("path", path).
		WithMetadata("method", c.Request.Method).
		WithMetadata("reason", reason)
	if sid, ok := c.Get("session_id"); ok {
		event.WithSession(sid.(string))
	}
	_ = mw.audit.LogEvent(c.Request.Context(), event)
}

// anyRuleHolds passes when one of the matched rows' rules holds. A malformed
// rule is reported only when no other rule lets the request through.
func (mw *SimpleCasbinMW) anyRuleHolds(c *gin.Context, rules []string, tokenClaims map[string]string) (bool, error) {
	var firstErr error
	for _, rule := range rules {
		valid, err := mw.validateFields(c, rule, tokenClaims)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if valid {
			return true, nil
		}
	}
	return false, firstErr
}

// validateFields checks every condition of rule. "*" and "" always pass.
func (mw *SimpleCasbinMW) validateFields(c *gin.Context, rule string, tokenClaims map[string]string) (bool, error) {
	if rule == "" || rule == "*" {
		return true, nil
	}

	for _, condition := range strings.Split(rule, "&&") {
		condition = strings.TrimSpace(condition)
		if condition == "" {
			continue
		}
		valid, err := mw.validateSingleCondition(c, condition, tokenClaims)
		if err != nil {
			return false, fmt.Errorf("validation condition '%s' failed: %w", condition, err)
		}
		if !valid {
			return false, nil
		}
	}
	return true, nil
}

// validateSingleCondition evaluates "source.field==token.claim". A request
// value that is absent fails the condition.
func (mw *SimpleCasbinMW) validateSingleCondition(c *gin.Context, condition string, tokenClaims map[string]string) (bool, error) {
	parts := strings.Split(condition, "==")
	if len(parts) != 2 {
		return false, fmt.Errorf("unsupported condition format: %s (only == is supported)", condition)
	}

	source, field, ok := strings.Cut(strings.TrimSpace(parts[0]), ".")
	if !ok {
		return false, fmt.Errorf("invalid source format: %s (expected source.field)", parts[0])
	}
	switch source {
	case "path", "query", "header", "body":
	default:
		return false, fmt.Errorf("unsupported source type: %s", source)
	}

	claimSource, claim, ok := strings.Cut(strings.TrimSpace(parts[1]), ".")
	if !ok || claimSource != "token" {
		return false, fmt.Errorf("invalid token source: %s (expected token.claim)", parts[1])
	}
	want, exists := tokenClaims[claim]
	if !exists {
		return false, fmt.Errorf("token claim '%s' not found", claim)
	}

	got, err := requestValue(c, source, field)
	if err != nil {
		return false, nil
	}
	return got == want, nil
}

// extractTokenClaims collects the claims the auth middleware put on the context
func extractTokenClaims(c *gin.Context) map[string]string {
	claims := make(map[string]string)
	if v := c.GetString("user_id"); v != "" {
		claims["user_id"] = v
	}
	if v := c.GetString("user_role"); v != "" {
		claims["role"] = v
	}
	if v := c.GetString("session_id"); v != "" {
		claims["session_id"] = v
	}
	return claims
}
