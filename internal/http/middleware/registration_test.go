package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/you/healthrecords/domain"
	"github.com/you/healthrecords/internal/mocks"
)

func TestRegistrationGuard(t *testing.T) {
	tests := []struct {
		name           string
		callerRole     string
		body           string
		expectedStatus int
		expectedMsg    string
	}{
		{name: "anonymous patient", body: `{"role":"PATIENT"}`, expectedStatus: http.StatusOK},
		{name: "anonymous patient lower case", body: `{"role":"patient"}`, expectedStatus: http.StatusOK},
		{name: "anonymous admin", body: `{"role":"ADMIN"}`, expectedStatus: http.StatusUnauthorized, expectedMsg: "Only an administrator can create ADMIN users"},
		{name: "anonymous doctor", body: `{"role":"Doctor"}`, expectedStatus: http.StatusUnauthorized, expectedMsg: "Only an administrator can create DOCTOR users"},
		{name: "patient creates admin", callerRole: "PATIENT", body: `{"role":"ADMIN"}`, expectedStatus: http.StatusForbidden},
		{name: "doctor creates doctor", callerRole: "DOCTOR", body: `{"role":"DOCTOR"}`, expectedStatus: http.StatusForbidden},
		{name: "admin creates admin", callerRole: "ADMIN", body: `{"role":"ADMIN"}`, expectedStatus: http.StatusOK},
		{name: "missing role left to handler", body: `{"fullName":"X"}`, expectedStatus: http.StatusOK},
		{name: "unknown role left to handler", body: `{"role":"nurse"}`, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := mocks.NewMockAuditLogger()
			var handlerBody string
			r := gin.New()
			r.POST("/api/users", withClaims("", tt.callerRole), RegistrationGuard(audit), func(c *gin.Context) {
				raw, _ := io.ReadAll(c.Request.Body)
				handlerBody = string(raw)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				assert.Contains(t, w.Body.String(), tt.expectedMsg)
			}
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.body, handlerBody)
				assert.Empty(t, audit.Types())
			} else {
				assert.Equal(t, []domain.AuditEventType{domain.AccessDeniedEvent}, audit.Types())
			}
		})
	}
}
