package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/http/handlers"
)

// RegistrationGuard limits self-registration to PATIENT accounts. Creating a
// DOCTOR or ADMIN requires an ADMIN caller, so it must run after OptionalJWT.
// Missing or unknown roles pass through for the handler to reject.
func RegistrationGuard(audit domain.AuditLogger) gin.HandlerFunc {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return func(c *gin.Context) {
		raw, err := bodyValue(c, "role")
		if err != nil {
			c.Next()
			return
		}
		role, err := domain.ParseRole(raw)
		if err != nil || role == domain.RolePatient {
			c.Next()
			return
		}

		callerRole := c.GetString("user_role")
		if callerRole == string(domain.RoleAdmin) {
			c.Next()
			return
		}

		event := domain.NewAuditEvent(domain.AccessDeniedEvent, 0).
			WithMetadata("path", c.FullPath()).
			WithMetadata("requested_role", string(role)).
			WithMetadata("caller_role", callerRole)
		_ = audit.LogEvent(c.Request.Context(), event)

		if callerRole == "" {
			handlers.WriteError(c, http.StatusUnauthorized, "Only an administrator can create "+string(role)+" users")
			return
		}
		handlers.WriteError(c, http.StatusForbidden, "Only an administrator can create "+string(role)+" users")
	}
}
